package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shrek82/msitable/core"
	"github.com/shrek82/msitable/schemafile"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Recompile a schema file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd)
			c, err := opts.compiler(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			w, err := schemafile.NewWatcher(args[0], log)
			if err != nil {
				return err
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			compile := func(f *schemafile.File) {
				schemas, err := c.CompileAll(core.WithSource(ctx, w.Path()), f.Definitions()...)
				if err != nil {
					for _, e := range flatten(err) {
						printf(cmd, "error: %v\n", e)
					}
					return
				}
				printf(cmd, "ok %d tables\n", len(schemas))
			}
			compile(w.Get())
			w.OnChange(compile)
			if err := w.Watch(); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	}
}
