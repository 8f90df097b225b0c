package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wheelforge/wheelforge/pkg/config"
	"github.com/wheelforge/wheelforge/pkg/global"
	"github.com/wheelforge/wheelforge/pkg/util/console"
)

var projectDirFlag string

func NewRootCommand() (*cobra.Command, error) {
	rootCmd := cobra.Command{
		Use:     "wheelforge",
		Short:   "Build CUDA-enabled PyTorch extension wheels",
		Version: fmt.Sprintf("%s (built %s)", global.Version, global.BuildTime),
		// This stops errors being printed because we print them in cmd/wheelforge/wheelforge.go
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			console.SetColor(console.IsTTY(os.Stderr))
			if global.Verbose {
				console.SetLevel(console.DebugLevel)
			}
			cmd.SilenceUsage = true
		},
		SilenceErrors: true,
	}
	setPersistentFlags(&rootCmd)

	rootCmd.AddCommand(
		newResolveCommand(),
		newBuildCommand(),
		newIndexCommand(),
		newWarmCommand(),
		newPublishCommand(),
		newVersionCommand(),
	)

	return &rootCmd, nil
}

func setPersistentFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "Verbose output")
}

func addProjectDirFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&projectDirFlag, "project-dir", "D", "", "Project directory, defaults to current working directory")
}

func getConfig() (*config.Config, string, error) {
	return config.GetConfig(projectDirFlag)
}
