// Command msi-gen compiles installer table definitions: it checks schema
// files, generates Go DAO types from them and exports the table catalog to
// SQL databases.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/shrek82/msitable/core"
	"github.com/shrek82/msitable/logger"
	"github.com/shrek82/msitable/middleware"
	"github.com/shrek82/msitable/model"
	"github.com/shrek82/msitable/schemafile"
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	logLevel  string
	logFormat string
	redisAddr string
	cacheDir  string
	slow      time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:          "msi-gen",
		Short:        "Compile installer table definitions",
		Long:         `msi-gen validates installer table definitions written in YAML, generates Go DAO types with msi tags, and writes the table catalog to SQL databases.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.logLevel, "log-level", "warn", "Log level: silent, error, warn, info or debug")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&opts.redisAddr, "redis", "", "Redis address for sharing compiled schemas")
	pf.StringVar(&opts.cacheDir, "cache-dir", "", "Directory for caching compiled schemas on disk")
	pf.DurationVar(&opts.slow, "slow", 0, "Log compiles slower than this duration (0 disables)")

	root.AddCommand(
		newCheckCmd(opts),
		newGenCmd(opts),
		newExportCmd(opts),
		newDDLCmd(opts),
		newWatchCmd(opts),
	)
	return root
}

func (o *globalOptions) logger(cmd *cobra.Command) logger.Logger {
	return logger.New(cmd.ErrOrStderr(), logger.ParseLevel(o.logLevel), logger.LogFormat(o.logFormat))
}

// compiler builds a compiler with the middleware selected by the flags.
// The caller must Close it.
func (o *globalOptions) compiler(cmd *cobra.Command) (*core.Compiler, error) {
	c := core.NewCompiler(&core.Options{Logger: o.logger(cmd)})

	var mws []core.CompileMiddleware
	if o.slow > 0 {
		mws = append(mws, middleware.NewSlowLog(o.slow, ""))
	}
	mws = append(mws, middleware.NewTracing())
	if o.redisAddr != "" {
		mws = append(mws, middleware.NewRedisCache(&redis.Options{Addr: o.redisAddr}, 24*time.Hour))
	}
	if o.cacheDir != "" {
		mws = append(mws, middleware.NewFileCache(o.cacheDir))
	}
	if err := c.Use(mws...); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// compileFile loads path and compiles every table in it.
func (o *globalOptions) compileFile(cmd *cobra.Command, path string) (*schemafile.File, []*model.TableSchema, error) {
	f, err := schemafile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	c, err := o.compiler(cmd)
	if err != nil {
		return nil, nil, err
	}
	defer c.Close()

	ctx := core.WithSource(cmdContext(cmd), path)
	schemas, err := c.CompileAll(ctx, f.Definitions()...)
	if err != nil {
		return f, nil, err
	}
	return f, schemas, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
