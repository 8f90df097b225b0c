package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wheelforge/wheelforge/pkg/http"
	"github.com/wheelforge/wheelforge/pkg/prefetch"
	"github.com/wheelforge/wheelforge/pkg/settings"
	"github.com/wheelforge/wheelforge/pkg/util/console"
)

func newWarmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Download the configured prefetch wheels into the wheelhouse",
		Args:  cobra.NoArgs,
		RunE:  warmCommand,
	}
	addProjectDirFlag(cmd)
	return cmd
}

func warmCommand(cmd *cobra.Command, args []string) error {
	cfg, rootDir, err := getConfig()
	if err != nil {
		return err
	}
	userSettings, err := settings.Load()
	if err != nil {
		return err
	}
	if len(cfg.Build.Prefetch) == 0 {
		console.Warn("No prefetch URLs configured in wheelforge.yaml, nothing to do")
		return nil
	}

	wheelhouse := cfg.Build.Wheelhouse
	if !filepath.IsAbs(wheelhouse) {
		wheelhouse = filepath.Join(rootDir, wheelhouse)
	}

	if err := prefetch.Warm(cmd.Context(), http.ProvideHTTPClient(), cfg.Build.Prefetch, userSettings.CacheDir, wheelhouse); err != nil {
		return err
	}
	console.Infof("Wheelhouse %s is warm", wheelhouse)
	return nil
}
