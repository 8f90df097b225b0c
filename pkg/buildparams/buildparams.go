// Package buildparams resolves a versioned build request into the concrete
// matrix a wheel build runs with: compute architectures, wheel version suffix
// and CPython build tags.
package buildparams

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wheelforge/wheelforge/pkg/compat"
	"github.com/wheelforge/wheelforge/pkg/errors"
	"github.com/wheelforge/wheelforge/pkg/util/version"
)

// CompareMode selects how version gates are compared. Historical builds
// compared minor components as strings, which goes wrong once a minor reaches
// two digits ("10" < "6" lexicographically). Numeric comparison is the
// default; the lexicographic mode reproduces the old behavior bug for bug and
// has to be asked for explicitly.
type CompareMode int

const (
	CompareNumeric CompareMode = iota
	CompareLexicographic
)

// Request is a single-shot build request. All fields arrive as strings, the
// way CI parameters do.
type Request struct {
	GitTag         string `json:"git_tag"`
	TorchMinor     string `json:"torch_minor"`
	TorchPatch     string `json:"torch_patch"`
	TorchIsNightly string `json:"torch_is_nightly"`
	CUDAMinor      string `json:"cuda_minor"`
	CUDAPatch      string `json:"cuda_patch"`
}

// Resolved is the build matrix derived from a Request.
type Resolved struct {
	GitTag             string   `json:"git_tag"`
	CUDAVersion        string   `json:"cuda_version"`
	TorchVersion       string   `json:"torch_version"`
	Nightly            bool     `json:"nightly"`
	CUDAArchList       []string `json:"cuda_arch_list"`
	WheelVersionSuffix string   `json:"wheel_version_suffix"`
	PythonABITags      []string `json:"python_abi_tags"`
}

// Resolve derives the build matrix for a request. It is pure: no environment
// is read or written.
func Resolve(req Request, mode CompareMode) (*Resolved, error) {
	if req.GitTag == "" {
		return nil, errors.InvalidInput("git tag must not be empty")
	}
	for name, value := range map[string]string{
		"torch_minor": req.TorchMinor,
		"torch_patch": req.TorchPatch,
		"cuda_minor":  req.CUDAMinor,
		"cuda_patch":  req.CUDAPatch,
	} {
		if _, err := strconv.Atoi(value); err != nil || strings.HasPrefix(value, "-") {
			return nil, errors.InvalidInput(fmt.Sprintf("%s is not a number: %q", name, value))
		}
	}
	nightly, err := parseBoolFlag(req.TorchIsNightly)
	if err != nil {
		return nil, err
	}

	resolved := &Resolved{
		GitTag:             req.GitTag,
		CUDAVersion:        fmt.Sprintf("12.%s.%s", req.CUDAMinor, req.CUDAPatch),
		TorchVersion:       fmt.Sprintf("2.%s.%s", req.TorchMinor, req.TorchPatch),
		Nightly:            nightly,
		WheelVersionSuffix: fmt.Sprintf("+cu12%storch2.%s.%s", req.CUDAMinor, req.TorchMinor, req.TorchPatch),
	}

	switch mode {
	case CompareLexicographic:
		resolved.CUDAArchList = legacyArchList(req.CUDAMinor)
		resolved.PythonABITags = legacyABITags(req.TorchMinor)
	default:
		resolved.CUDAArchList, err = compat.ArchListFor(resolved.CUDAVersion)
		if err != nil {
			return nil, errors.InvalidInput(err.Error())
		}
		resolved.PythonABITags, err = compat.ABITagsFor(resolved.TorchVersion, compat.WindowsPlatformTag)
		if err != nil {
			return nil, errors.InvalidInput(err.Error())
		}
	}
	return resolved, nil
}

// legacyArchList applies the same gates as compat.ArchListFor but compares
// minor components as strings, matching the historical shell conditionals.
func legacyArchList(cudaMinor string) []string {
	archs := []string{}
	for _, gate := range compat.CUDAArchMatrix {
		gateMinor := strconv.Itoa(version.MustVersion(gate.MinCUDA).Minor)
		if cudaMinor >= gateMinor {
			archs = append(archs, gate.Arch)
		}
	}
	return archs
}

func legacyABITags(torchMinor string) []string {
	tags := []string{}
	for _, target := range compat.PythonTargetMatrix {
		gateMinor := strconv.Itoa(version.MustVersion(target.MinTorch).Minor)
		if torchMinor >= gateMinor {
			tags = append(tags, target.ABITag+"-"+compat.WindowsPlatformTag)
		}
	}
	return tags
}

func parseBoolFlag(s string) (bool, error) {
	switch s {
	case "1":
		return true, nil
	case "0", "":
		return false, nil
	}
	return false, errors.InvalidInput(fmt.Sprintf("torch_is_nightly must be \"0\" or \"1\", got %q", s))
}

// BuilderEnv assembles the environment for the external wheel builder. The
// map is returned to the caller instead of being written into the process
// environment, so each run owns its configuration end to end.
//
// The SAGEATTENTION_* keys are the contract with the companion project's
// setup.py: the arch list is read from SAGEATTENTION_CUDA_ARCH_LIST and split
// on whitespace, and SAGEATTENTION_WHEEL_VERSION_SUFFIX is appended to the
// wheel version verbatim.
func (r *Resolved) BuilderEnv(verbosity int) map[string]string {
	nightly := "0"
	if r.Nightly {
		nightly = "1"
	}
	return map[string]string{
		"CIBW_BUILD":                         strings.Join(r.PythonABITags, " "),
		"CIBW_BUILD_VERBOSITY":               strconv.Itoa(verbosity),
		"CIBW_DEPENDENCY_VERSIONS":           "latest",
		"SAGEATTENTION_CUDA_ARCH_LIST":       strings.Join(r.CUDAArchList, " "),
		"SAGEATTENTION_WHEEL_VERSION_SUFFIX": r.WheelVersionSuffix,
		"SAGE_NIGHTLY":                       nightly,
	}
}
