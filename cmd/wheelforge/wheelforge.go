package main

import (
	"github.com/wheelforge/wheelforge/pkg/cli"
	"github.com/wheelforge/wheelforge/pkg/util/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}

	if err = cmd.Execute(); err != nil {
		console.Fatalf("%s", err)
	}
}
