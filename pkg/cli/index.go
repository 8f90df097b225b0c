package cli

import (
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wheelforge/wheelforge/pkg/index"
	"github.com/wheelforge/wheelforge/pkg/settings"
	"github.com/wheelforge/wheelforge/pkg/util/console"
)

func newIndexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Serve the wheelhouse as a local package index until interrupted",
		Args:  cobra.NoArgs,
		RunE:  indexCommand,
	}
	addProjectDirFlag(cmd)
	return cmd
}

func indexCommand(cmd *cobra.Command, args []string) error {
	cfg, rootDir, err := getConfig()
	if err != nil {
		return err
	}
	userSettings, err := settings.Load()
	if err != nil {
		return err
	}

	wheelhouse := cfg.Build.Wheelhouse
	if !filepath.IsAbs(wheelhouse) {
		wheelhouse = filepath.Join(rootDir, wheelhouse)
	}

	server := index.NewServer(wheelhouse, userSettings.UpstreamIndexURL, cfg.Build.IndexPort)
	console.Infof("Serving %s on %s", wheelhouse, server.LocalURL())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx)
}
