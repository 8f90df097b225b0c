package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wheelforge/wheelforge/pkg/build"
	"github.com/wheelforge/wheelforge/pkg/http"
	"github.com/wheelforge/wheelforge/pkg/prefetch"
	"github.com/wheelforge/wheelforge/pkg/settings"
	"github.com/wheelforge/wheelforge/pkg/util/console"
)

var buildWorkDir string

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build wheels from the project pinned in wheelforge.yaml",
		Args:  cobra.NoArgs,
		RunE:  buildCommand,
	}
	addProjectDirFlag(cmd)
	cmd.Flags().StringVar(&buildWorkDir, "work-dir", "", "Directory to check the source out into, defaults to a temporary directory")
	return cmd
}

func buildCommand(cmd *cobra.Command, args []string) error {
	cfg, rootDir, err := getConfig()
	if err != nil {
		return err
	}
	userSettings, err := settings.Load()
	if err != nil {
		return err
	}

	if len(cfg.Build.Prefetch) > 0 {
		wheelhouse := cfg.Build.Wheelhouse
		if !filepath.IsAbs(wheelhouse) {
			wheelhouse = filepath.Join(rootDir, wheelhouse)
		}
		if err := prefetch.Warm(cmd.Context(), http.ProvideHTTPClient(), cfg.Build.Prefetch, userSettings.CacheDir, wheelhouse); err != nil {
			return err
		}
	}

	artifacts, err := build.Run(cmd.Context(), build.Options{
		Config:   cfg,
		Settings: userSettings,
		RootDir:  rootDir,
		WorkDir:  buildWorkDir,
		Command:  build.NewExecCommand(),
	})
	if err != nil {
		return err
	}

	for _, artifact := range artifacts {
		console.Output(artifact)
	}
	console.Infof("\nBuilt %d wheel(s)", len(artifacts))
	return nil
}
