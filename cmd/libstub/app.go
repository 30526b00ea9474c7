package main

import (
	"context"
	"fmt"
	"io"

	log "github.com/xuperchain/log15"

	"github.com/emenda-labs/libstub/core/changespec"
	"github.com/emenda-labs/libstub/core/cli"
	"github.com/emenda-labs/libstub/core/linker"
	"github.com/emenda-labs/libstub/core/logs"
	"github.com/emenda-labs/libstub/drivers/tbd"
	"github.com/emenda-labs/libstub/pkg/source"
)

// app wires the command handlers to the tbd driver. The linker is built on
// first use because the logger depends on configuration loaded by the root
// command.
type app struct {
	globals *cli.GlobalOptions
	stdout  io.Writer
	stderr  io.Writer
	loader  linker.Loader
	linker  *linker.Linker
	log     log.Logger
}

func newApp(globals *cli.GlobalOptions, stdout, stderr io.Writer) *app {
	return &app{globals: globals, stdout: stdout, stderr: stderr}
}

func (a *app) getLinker() (*linker.Linker, error) {
	if a.linker != nil {
		return a.linker, nil
	}

	logger := logs.Discard()
	if a.globals.Config != nil {
		l, err := logs.Open(a.globals.Config.Log, a.stderr)
		if err != nil {
			return nil, err
		}
		logger = l
	}

	loader := a.loader
	if loader == nil {
		loader = source.NewLoader(nil)
	}

	driver := tbd.NewDriver(tbd.WithLogger(logger.New("component", "tbd")))
	a.linker = linker.New(driver, loader, logger.New("component", "linker"))
	a.log = logger
	return a.linker, nil
}

func (a *app) runProbe(ctx context.Context, opts cli.ProbeOptions) error {
	lk, err := a.getLinker()
	if err != nil {
		return err
	}

	for _, input := range opts.Inputs {
		files, err := lk.Load(ctx, input)
		if err != nil {
			return fmt.Errorf("loading %s: %w", input, err)
		}
		for _, f := range files {
			fmt.Fprintf(a.stdout, "%s: isSupported = %t\n", f.Name, lk.Probe(f))
		}
	}
	return nil
}

func (a *app) runDump(ctx context.Context, opts cli.DumpOptions) error {
	lk, err := a.getLinker()
	if err != nil {
		return err
	}
	req, err := opts.Request()
	if err != nil {
		return err
	}

	var results []linker.Result
	for _, input := range opts.Inputs {
		files, err := lk.Load(ctx, input)
		if err != nil {
			return fmt.Errorf("loading %s: %w", input, err)
		}
		for _, f := range files {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			results = append(results, lk.ResolveFile(f, req))
		}
	}

	return cli.WriteResults(a.stdout, a.stderr, results, opts.Format)
}

func (a *app) runDiff(ctx context.Context, opts cli.DiffOptions) error {
	lk, err := a.getLinker()
	if err != nil {
		return err
	}
	req, err := opts.Request()
	if err != nil {
		return err
	}
	target := req.Archs[0]

	oldFile, err := lk.LoadOne(ctx, opts.Old)
	if err != nil {
		return fmt.Errorf("loading old stub: %w", err)
	}
	newFile, err := lk.LoadOne(ctx, opts.New)
	if err != nil {
		return fmt.Errorf("loading new stub: %w", err)
	}

	oldIface, err := lk.ResolveOne(oldFile, target, req)
	if err != nil {
		return fmt.Errorf("resolving old stub: %w", err)
	}
	newIface, err := lk.ResolveOne(newFile, target, req)
	if err != nil {
		return fmt.Errorf("resolving new stub: %w", err)
	}

	cs := changespec.Diff(oldIface, newIface)
	cs.OldPath = oldFile.Name
	cs.NewPath = newFile.Name

	cli.WriteChangeSpec(a.stdout, cs)
	a.log.Info("diff complete", "arch", target, "changes", len(cs.Changes), "breaking", len(cs.Breaking()))
	return nil
}
