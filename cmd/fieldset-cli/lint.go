package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldset/pkg/config"
	"github.com/goliatone/go-fieldset/pkg/fields"
)

var lintCmd = &cobra.Command{
	Use:   "lint <declarations-dir>",
	Short: "Normalize declaration documents and report configuration errors.",
	Long: `lint loads every JSON/YAML declaration file under the given directory,
normalizes each content type's field tree, and reports configuration errors.
Unknown visibility operators evaluate as loose equality at runtime; lint
reports them as warnings so misspelled operators surface before then.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.LoadFS(os.DirFS(args[0]))
		if err != nil {
			return err
		}
		if store.Empty() {
			log.Warnf("no declaration files found under %s", args[0])
			return nil
		}

		warnings := 0
		for _, name := range store.Names() {
			decl, _ := store.Type(name)
			warnings += lintSchema(name, "", decl.Schema)
			log.Infof("%s: %d fields ok (%s)", name, len(decl.Schema), decl.Source)
		}
		if warnings > 0 {
			return fmt.Errorf("lint found %d warning(s)", warnings)
		}
		return nil
	},
}

func lintSchema(typeName, prefix string, schema []fields.Field) int {
	warnings := 0
	for _, field := range schema {
		path := field.Key
		if prefix != "" {
			path = prefix + "." + field.Key
		}
		for _, cond := range field.Visibility {
			if !fields.KnownOperator(cond.Operator) {
				log.Warnf("%s: field %s uses unknown operator %q (will evaluate as loose equality)", typeName, path, cond.Operator)
				warnings++
			}
		}
		warnings += lintSchema(typeName, path, field.Children)
	}
	return warnings
}
