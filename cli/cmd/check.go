package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/twowaysql/twowaysql"
	"github.com/twowaysql/twowaysql/dialect"
	"github.com/twowaysql/twowaysql/engine"
)

// walkTemplates recursively finds every *.sql file under dir, grounded on
// the same filepath.Walk pattern the teacher's find command used.
func walkTemplates(dir string) ([]string, error) {
	var found []string
	err := filepath.Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".sql") {
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr
			}
			found = append(found, rel)
		}
		return nil
	})
	return found, err
}

var (
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Parse every *.sql template under --directory against --dialect, with all bindings absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				_ = cmd.Help()
				return errors.New("too many arguments")
			}

			dia, ok := dialect.Lookup(dialectID)
			if !ok {
				return fmt.Errorf("unknown dialect %q", dialectID)
			}

			templates, err := walkTemplates(directory)
			if err != nil {
				return err
			}
			if len(templates) == 0 {
				fmt.Println("no *.sql templates found under " + directory)
				return nil
			}

			loader := twowaysql.DirLoader(directory)
			var parseErrors []error
			for _, t := range templates {
				if _, err := twowaysql.Render(loader, nil, engine.FileRef(t), twowaysql.Bindings{}, dia); err != nil {
					parseErrors = append(parseErrors, err)
				}
			}

			fmt.Printf("checked %d template(s)\n", len(templates))
			if len(parseErrors) > 0 {
				err := twowaysql.ParseErrors{Errors: parseErrors}
				fmt.Print(err.Error())
				os.Exit(1)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(checkCmd)
}
