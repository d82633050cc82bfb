package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-fieldset/pkg/config"
	"github.com/goliatone/go-fieldset/pkg/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <declarations-dir> <content-type>",
	Short: "Emit the canonical schema or an OpenAPI description for a content type.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.LoadFS(os.DirFS(args[0]))
		if err != nil {
			return err
		}
		decl, ok := store.Type(args[1])
		if !ok {
			return fmt.Errorf("content type %q not declared under %s", args[1], args[0])
		}

		var payload any
		switch exportFormat {
		case "schema":
			payload = decl.Schema
		case "openapi":
			payload = export.OpenAPISchema(context.Background(), decl.Schema)
		default:
			return fmt.Errorf("unknown format %q (want schema or openapi)", exportFormat)
		}

		encoded, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s: %w", exportFormat, err)
		}

		if exportOutput == "" {
			fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
			return nil
		}
		if err := os.WriteFile(exportOutput, append(encoded, '\n'), 0o644); err != nil {
			return err
		}
		log.Infof("%s schema written to %s", args[1], exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "schema", "output format: schema or openapi")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (stdout if empty)")
}
