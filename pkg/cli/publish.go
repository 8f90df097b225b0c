package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wheelforge/wheelforge/pkg/build"
	"github.com/wheelforge/wheelforge/pkg/publish"
	"github.com/wheelforge/wheelforge/pkg/settings"
)

func newPublishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the wheels in the output directory to S3",
		Args:  cobra.NoArgs,
		RunE:  publishCommand,
	}
	addProjectDirFlag(cmd)
	return cmd
}

func publishCommand(cmd *cobra.Command, args []string) error {
	cfg, rootDir, err := getConfig()
	if err != nil {
		return err
	}
	userSettings, err := settings.Load()
	if err != nil {
		return err
	}

	outputDir := cfg.Build.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(rootDir, outputDir)
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		return err
	}
	wheels, err := build.CollectArtifacts(outputDir, resolved.WheelVersionSuffix)
	if err != nil {
		return fmt.Errorf("%w. Run 'wheelforge build' first", err)
	}

	uploader, err := publish.NewUploader(cmd.Context(), userSettings)
	if err != nil {
		return err
	}
	return uploader.Upload(cmd.Context(), wheels)
}
