package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twowaysql/twowaysql"
	"github.com/twowaysql/twowaysql/dialect"
	"github.com/twowaysql/twowaysql/engine"
)

var database string

var execCmd = &cobra.Command{
	Use:   "exec <template.sql> --database <name>",
	Short: "Render a template and run it against a database named in twowaysql.yaml, printing rows as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return errors.New("need to specify argument <template.sql>")
		}
		if database == "" {
			return errors.New("--database is required")
		}

		cfg, err := LoadConfig()
		if err != nil {
			return err
		}
		dbcfg, ok := cfg.Databases[database]
		if !ok {
			return fmt.Errorf("no database %q in twowaysql.yaml", database)
		}

		logger := logrus.New()
		db, err := dbcfg.Open(context.Background(), logger)
		if err != nil {
			return err
		}
		defer db.Close()

		dia, ok := dialect.Lookup(dbcfg.Dialect)
		if !ok {
			return fmt.Errorf("unknown dialect %q", dbcfg.Dialect)
		}

		bindings, err := loadBindings()
		if err != nil {
			return err
		}

		loader := twowaysql.DirLoader(directory)
		rows, err := twowaysql.Query(context.Background(), db, loader, nil, engine.FileRef(args[0]), bindings, dia)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	},
}

func init() {
	execCmd.Flags().StringVar(&database, "database", "", "database name from twowaysql.yaml")
	execCmd.Flags().StringArrayVar(&bindFlags, "bind", nil, "bind a parameter, name=value (repeatable)")
	execCmd.Flags().StringVar(&bindFile, "bind-file", "", "YAML file of name: value bindings")
	rootCmd.AddCommand(execCmd)
}
