// Package manifest rewrites a checkout's build manifest so the build runs
// against exactly the torch and index the request resolved to.
package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/wheelforge/wheelforge/pkg/buildparams"
	"github.com/wheelforge/wheelforge/pkg/util/console"
	"github.com/wheelforge/wheelforge/pkg/util/version"
)

const torchPackage = "torch"

// TorchIndexURL returns the PyTorch wheel index for the resolved CUDA
// version, e.g. https://download.pytorch.org/whl/cu128. Nightly builds come
// from the nightly channel instead.
func TorchIndexURL(resolved *buildparams.Resolved) string {
	cudaMinor := version.MustVersion(resolved.CUDAVersion).Minor
	if resolved.Nightly {
		return fmt.Sprintf("https://download.pytorch.org/whl/nightly/cu12%d", cudaMinor)
	}
	return fmt.Sprintf("https://download.pytorch.org/whl/cu12%d", cudaMinor)
}

// PinTorch rewrites the torch requirement to the resolved version and points
// pip at the matching wheel channel. A manifest without a torch line gets one
// appended. Nightly builds pin the version prefix, since nightly wheels carry
// dated dev suffixes.
func PinTorch(reqs Requirements, resolved *buildparams.Resolved) Requirements {
	pin := resolved.TorchVersion
	if resolved.Nightly {
		pin = resolved.TorchVersion + ".*"
	}
	indexURL := TorchIndexURL(resolved)

	pinned := false
	for i := range reqs {
		if reqs[i].ParsedFieldsValid && strings.EqualFold(reqs[i].Name, torchPackage) {
			reqs[i].Version = pin
			reqs[i].ExtraIndexURLs = append(reqs[i].ExtraIndexURLs, indexURL)
			pinned = true
		}
	}
	if !pinned {
		order := len(reqs)
		reqs = append(reqs, Requirement{
			Name:              torchPackage,
			Version:           pin,
			ExtraIndexURLs:    []string{indexURL},
			ParsedFieldsValid: true,
			order:             order,
		})
	}
	return reqs
}

// AddExtraIndexURL attaches an index URL to the manifest, typically the local
// package index a build serves its wheelhouse from.
func AddExtraIndexURL(reqs Requirements, indexURL string) Requirements {
	if indexURL == "" {
		return reqs
	}
	for i := range reqs {
		if reqs[i].ParsedFieldsValid {
			reqs[i].ExtraIndexURLs = append(reqs[i].ExtraIndexURLs, indexURL)
			return reqs
		}
	}
	return append(reqs, Requirement{
		Literal: "--extra-index-url=" + indexURL,
		order:   len(reqs),
	})
}

// RewriteFile pins the manifest at path in place. localIndexURL may be empty.
func RewriteFile(path string, resolved *buildparams.Resolved, localIndexURL string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Failed to read build manifest %s: %w", path, err)
	}

	reqs := Parse(strings.Split(strings.TrimRight(string(contents), "\n"), "\n"))
	reqs = PinTorch(reqs, resolved)
	if localIndexURL != "" {
		reqs = AddExtraIndexURL(reqs, localIndexURL)
	}

	console.Debugf("Pinning %s to torch %s in %s", torchPackage, resolved.TorchVersion, path)
	return os.WriteFile(path, []byte(reqs.FileContent()+"\n"), 0o644)
}
