package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shrek82/msitable/core"
	"github.com/shrek82/msitable/dialect"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var driver, dsn string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the table catalog of a schema file to a SQL database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				return fmt.Errorf("--dsn is required")
			}
			_, schemas, err := opts.compileFile(cmd, args[0])
			if err != nil {
				return err
			}
			ctx := cmdContext(cmd)
			c := core.NewCompiler(&core.Options{Logger: opts.logger(cmd)})
			e, err := core.OpenExporter(ctx, driver, dsn, c)
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.Export(ctx, schemas...); err != nil {
				return err
			}
			printf(cmd, "exported %d tables to %s\n", len(schemas), driver)
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "sqlite3", "Database driver: sqlite3, mysql or postgres")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Data source name")
	return cmd
}

func newDDLCmd(opts *globalOptions) *cobra.Command {
	var name string
	var withCatalog bool
	cmd := &cobra.Command{
		Use:   "ddl FILE",
		Short: "Print CREATE TABLE statements for a schema file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := dialect.Get(name)
			if !ok {
				return fmt.Errorf("unknown dialect %s (have %v)", name, dialect.Names())
			}
			_, schemas, err := opts.compileFile(cmd, args[0])
			if err != nil {
				return err
			}
			if withCatalog {
				c := core.NewCompiler(nil)
				for _, dao := range []any{core.TablesEntry{}, core.ColumnsEntry{}} {
					m, err := c.CompileType(dao)
					if err != nil {
						return err
					}
					q, _ := d.CreateTableSQL(m.Schema())
					printf(cmd, "%s;\n", q)
				}
			}
			for _, s := range schemas {
				q, _ := d.CreateTableSQL(s)
				printf(cmd, "%s;\n", q)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "dialect", "sqlite3", "SQL dialect: sqlite3, mysql, postgres or sqlserver")
	cmd.Flags().BoolVar(&withCatalog, "catalog", false, "Include the _Tables and _Columns system tables")
	return cmd
}
