package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/emenda-labs/libstub/core/cli"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	globals := &cli.GlobalOptions{}
	a := newApp(globals, os.Stdout, os.Stderr)

	root := cli.NewRootCmd(version, globals)
	root.AddCommand(cli.NewProbeCmd(a.runProbe))
	root.AddCommand(cli.NewDumpCmd(globals, a.runDump))
	root.AddCommand(cli.NewDiffCmd(globals, a.runDiff))

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
