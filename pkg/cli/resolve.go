package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wheelforge/wheelforge/pkg/util/console"
)

var resolveJSON bool

func newResolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the build matrix resolved from wheelforge.yaml",
		Args:  cobra.NoArgs,
		RunE:  resolveCommand,
	}
	addProjectDirFlag(cmd)
	cmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the resolved matrix as JSON")
	return cmd
}

func resolveCommand(cmd *cobra.Command, args []string) error {
	cfg, _, err := getConfig()
	if err != nil {
		return err
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		return err
	}

	if resolveJSON {
		out, err := json.MarshalIndent(resolved, "", "  ")
		if err != nil {
			return err
		}
		console.Output(string(out))
		return nil
	}

	console.Output(fmt.Sprintf("tag:             %s", resolved.GitTag))
	console.Output(fmt.Sprintf("torch:           %s", resolved.TorchVersion))
	console.Output(fmt.Sprintf("cuda:            %s", resolved.CUDAVersion))
	console.Output(fmt.Sprintf("version suffix:  %s", resolved.WheelVersionSuffix))
	console.Output(fmt.Sprintf("architectures:   %s", strings.Join(resolved.CUDAArchList, ";")))
	console.Output(fmt.Sprintf("build targets:   %s", strings.Join(resolved.PythonABITags, " ")))
	return nil
}
