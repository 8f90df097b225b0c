// Package build sequences a wheel build run: resolve the matrix, check out
// the source, pin its manifest, stand up the local package index and invoke
// the external builder. Any failing step aborts the run.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/wheelforge/wheelforge/pkg/config"
	"github.com/wheelforge/wheelforge/pkg/global"
	"github.com/wheelforge/wheelforge/pkg/index"
	"github.com/wheelforge/wheelforge/pkg/manifest"
	"github.com/wheelforge/wheelforge/pkg/settings"
	"github.com/wheelforge/wheelforge/pkg/util/console"
	"github.com/wheelforge/wheelforge/pkg/util/shell"
)

type Options struct {
	Config   *config.Config
	Settings *settings.Settings
	// RootDir is the project directory holding wheelforge.yaml. Relative
	// wheelhouse and output paths are resolved against it.
	RootDir string
	// WorkDir holds the source checkout. A temporary directory is used when
	// empty.
	WorkDir string
	Command Command
}

// Run executes a full build and returns the wheel artifacts it produced.
func Run(ctx context.Context, opts Options) ([]string, error) {
	cfg := opts.Config
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	console.Infof("Building %s wheels for torch %s / CUDA %s", cfg.Project.Tag, resolved.TorchVersion, resolved.CUDAVersion)
	console.Debugf("Compute architectures: %s", strings.Join(resolved.CUDAArchList, ", "))
	console.Debugf("Build targets: %s", strings.Join(resolved.PythonABITags, ", "))

	workDir := opts.WorkDir
	if workDir == "" {
		workDir, err = os.MkdirTemp("", "wheelforge-")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(workDir)
	}

	srcDir := filepath.Join(workDir, "src")
	if err := opts.Command.Checkout(ctx, cfg.Project.Repo, cfg.Project.Tag, srcDir); err != nil {
		return nil, fmt.Errorf("Failed to check out %s at %s: %w", cfg.Project.Repo, cfg.Project.Tag, err)
	}

	wheelhouse := resolvePath(opts.RootDir, cfg.Build.Wheelhouse)
	if err := os.MkdirAll(wheelhouse, 0o755); err != nil {
		return nil, err
	}
	outputDir := resolvePath(opts.RootDir, cfg.Build.OutputDir)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}

	server := index.NewServer(wheelhouse, opts.Settings.UpstreamIndexURL, cfg.Build.IndexPort)

	if err := manifest.RewriteFile(filepath.Join(srcDir, cfg.ManifestPath()), resolved, server.LocalURL()); err != nil {
		return nil, err
	}

	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.ListenAndServe(serverCtx)
	})

	if err := shell.WaitForPort(cfg.Build.IndexPort, global.IndexStartupTimeout); err != nil {
		stopServer()
		_ = group.Wait()
		return nil, fmt.Errorf("Package index did not come up: %w", err)
	}
	if err := shell.WaitForHTTPOK(server.LocalURL(), global.IndexStartupTimeout); err != nil {
		stopServer()
		_ = group.Wait()
		return nil, fmt.Errorf("Package index did not come up: %w", err)
	}

	env := resolved.BuilderEnv(cfg.Build.Verbosity)
	env["PIP_EXTRA_INDEX_URL"] = server.LocalURL()

	buildErr := opts.Command.BuildWheels(ctx, srcDir, outputDir, env)

	stopServer()
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if buildErr != nil {
		return nil, fmt.Errorf("Wheel build failed: %w", buildErr)
	}

	artifacts, err := CollectArtifacts(outputDir, resolved.WheelVersionSuffix)
	if err != nil {
		return nil, fmt.Errorf("The builder exited cleanly but left nothing to collect: %w", err)
	}
	return artifacts, nil
}

func resolvePath(rootDir string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(rootDir, path)
}

// CollectArtifacts returns the wheels in outputDir carrying versionSuffix.
// Stale wheels from earlier runs against a different matrix are skipped.
func CollectArtifacts(outputDir string, versionSuffix string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(outputDir, "*.whl"))
	if err != nil {
		return nil, err
	}
	artifacts := []string{}
	for _, match := range matches {
		if strings.Contains(filepath.Base(match), versionSuffix) {
			artifacts = append(artifacts, match)
		}
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("No wheels tagged %s in %s", versionSuffix, outputDir)
	}
	return artifacts, nil
}
