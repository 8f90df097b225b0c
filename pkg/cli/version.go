package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wheelforge/wheelforge/pkg/global"
	"github.com/wheelforge/wheelforge/pkg/util/console"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			console.Output(fmt.Sprintf("wheelforge version %s (built %s)", global.Version, global.BuildTime))
		},
	}
}
