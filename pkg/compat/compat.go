// Package compat holds the build matrices that decide which CUDA compute
// architectures and which CPython targets a given CUDA/PyTorch pair builds for.
package compat

import (
	// blank import for embeds
	_ "embed"
	"encoding/json"
	"sort"

	"github.com/wheelforge/wheelforge/pkg/util/console"
	"github.com/wheelforge/wheelforge/pkg/util/version"
)

// CUDAArch gates a compute architecture on a minimum CUDA toolkit version.
type CUDAArch struct {
	Arch    string `json:"arch"`
	MinCUDA string `json:"min_cuda"`
}

// PythonTarget gates a CPython build target on a minimum PyTorch version.
// PyTorch only publishes wheels for a CPython release once support lands, so
// targets newer than the requested torch are skipped.
type PythonTarget struct {
	Python   string `json:"python"`
	ABITag   string `json:"abi_tag"`
	MinTorch string `json:"min_torch"`
}

// WindowsPlatformTag is the wheel platform tag for the win-amd64 runners the
// builder targets.
const WindowsPlatformTag = "win_amd64"

//go:embed cuda_archs.json
var cudaArchData []byte

// CUDAArchMatrix is ordered oldest architecture first; resolved arch lists
// preserve this order.
var CUDAArchMatrix []CUDAArch

//go:embed python_versions.json
var pythonTargetData []byte
var PythonTargetMatrix []PythonTarget

func init() {
	if err := json.Unmarshal(cudaArchData, &CUDAArchMatrix); err != nil {
		console.Fatalf("Failed to load embedded CUDA architecture matrix: %s", err)
	}
	if err := json.Unmarshal(pythonTargetData, &PythonTargetMatrix); err != nil {
		console.Fatalf("Failed to load embedded Python target matrix: %s", err)
	}
}

// ArchListFor returns the ordered compute architecture list for a CUDA toolkit
// version, e.g. "12.8.0".
func ArchListFor(cuda string) ([]string, error) {
	cudaVer, err := version.NewVersion(cuda)
	if err != nil {
		return nil, err
	}
	archs := []string{}
	for _, gate := range CUDAArchMatrix {
		if cudaVer.GreaterOrEqual(version.MustVersion(gate.MinCUDA)) {
			archs = append(archs, gate.Arch)
		}
	}
	return archs, nil
}

// ABITagsFor returns the wheel build tags ("cp310-win_amd64", ...) for a
// PyTorch version, e.g. "2.9.0".
func ABITagsFor(torch string, platform string) ([]string, error) {
	torchVer, err := version.NewVersion(torch)
	if err != nil {
		return nil, err
	}
	tags := []string{}
	for _, target := range PythonTargetMatrix {
		if torchVer.GreaterOrEqual(version.MustVersion(target.MinTorch)) {
			tags = append(tags, target.ABITag+"-"+platform)
		}
	}
	return tags, nil
}

// PythonsFor returns the CPython versions buildable against a PyTorch version.
func PythonsFor(torch string) ([]string, error) {
	torchVer, err := version.NewVersion(torch)
	if err != nil {
		return nil, err
	}
	pythons := []string{}
	for _, target := range PythonTargetMatrix {
		if torchVer.GreaterOrEqual(version.MustVersion(target.MinTorch)) {
			pythons = append(pythons, target.Python)
		}
	}
	return pythons, nil
}

// LatestPython returns the newest CPython version in the matrix.
func LatestPython() string {
	pythons := make([]string, 0, len(PythonTargetMatrix))
	for _, target := range PythonTargetMatrix {
		pythons = append(pythons, target.Python)
	}
	sort.Slice(pythons, func(i, j int) bool {
		return version.Greater(pythons[i], pythons[j])
	})
	return pythons[0]
}
