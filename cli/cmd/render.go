package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/twowaysql/twowaysql"
	"github.com/twowaysql/twowaysql/dialect"
	"github.com/twowaysql/twowaysql/engine"
)

var (
	bindFlags []string
	bindFile  string

	renderCmd = &cobra.Command{
		Use:   "render <template.sql>",
		Short: "Render a two-way SQL template to stdout with its bound argument list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				_ = cmd.Help()
				return errors.New("need to specify argument <template.sql>")
			}

			dia, ok := dialect.Lookup(dialectID)
			if !ok {
				return fmt.Errorf("unknown dialect %q", dialectID)
			}

			bindings, err := loadBindings()
			if err != nil {
				return err
			}

			loader := twowaysql.DirLoader(directory)
			doc, err := twowaysql.Render(loader, nil, engine.FileRef(args[0]), bindings, dia)
			if err != nil {
				return err
			}

			fmt.Println(doc.SQL)
			fmt.Println("===")
			for i, a := range doc.Args {
				fmt.Printf("$%d = %v\n", i+1, a)
			}
			return nil
		},
	}
)

func loadBindings() (twowaysql.Bindings, error) {
	bindings := twowaysql.Bindings{}

	if bindFile != "" {
		raw, err := os.ReadFile(bindFile)
		if err != nil {
			return nil, err
		}
		var asMap map[string]interface{}
		if err := yaml.Unmarshal(raw, &asMap); err != nil {
			return nil, err
		}
		for k, v := range asMap {
			bindings[k] = engine.Of(v)
		}
	}

	for _, kv := range bindFlags {
		name, value, found := strings.Cut(kv, "=")
		if !found {
			return nil, fmt.Errorf("--bind %q must be name=value", kv)
		}
		bindings[name] = parseBindValue(value)
	}
	return bindings, nil
}

func parseBindValue(value string) engine.Value {
	switch value {
	case "":
		return engine.Null()
	case "true":
		return engine.Bool(true)
	case "false":
		return engine.Bool(false)
	}
	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		items := make([]engine.Value, len(parts))
		for i, p := range parts {
			items[i] = engine.Scalar(p)
		}
		return engine.List(items...)
	}
	return engine.Scalar(value)
}

func init() {
	renderCmd.Flags().StringArrayVar(&bindFlags, "bind", nil, "bind a parameter, name=value (repeatable); value 'true'/'false' binds a bool, a comma-separated value binds a list")
	renderCmd.Flags().StringVar(&bindFile, "bind-file", "", "YAML file of name: value bindings, merged under --bind")
	rootCmd.AddCommand(renderCmd)
}
