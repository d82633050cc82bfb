package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fieldset-cli",
	Short: "Lint and export declarative field schemas.",
	Long: `fieldset-cli works with field declaration documents: JSON or YAML files
that attach a field tree to each content type. The lint command normalizes
every declaration and reports configuration errors; the export command emits
the canonical schema or an OpenAPI description of the sanitized submission
shape.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			level = log.InfoLevel
		}
		log.SetLevel(level)
	},
}

var logLevel string

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
