package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/goliatone/go-admin-dashboard/components/dashboard"
)

type manifestCmd struct {
	Print    manifestPrintCmd    `cmd:"" default:"1" help:"Print the built-in widget manifest as YAML."`
	Validate manifestValidateCmd `cmd:"" help:"Validate manifest files against the widget registry."`
}

type manifestPrintCmd struct{}

func (cmd *manifestPrintCmd) Run(out io.Writer) error {
	return dashboard.EncodeManifest(out, dashboard.BuiltinManifest())
}

type manifestValidateCmd struct {
	Paths []string `arg:"" type:"existingfile" help:"Manifest files to check."`
}

// Run decodes each manifest, compiles every widget schema and flags codes
// that shadow a built-in widget.
func (cmd *manifestValidateCmd) Run(out io.Writer) error {
	builtin := map[string]bool{}
	for _, widget := range dashboard.BuiltinManifest().Widgets {
		builtin[widget.Definition.Code] = true
	}
	validator := dashboard.NewJSONSchemaValidator()
	registry := dashboard.NewRegistry()
	for _, path := range cmd.Paths {
		doc, err := registry.LoadManifestFile(path)
		if err != nil {
			return err
		}
		for _, widget := range doc.Widgets {
			// Only schema compile failures count; an empty configuration may
			// legitimately miss required properties.
			err := validator.Validate(widget.Definition, nil)
			if err != nil && !errors.Is(err, dashboard.ErrInvalidConfiguration) {
				return fmt.Errorf("%s: %w", path, err)
			}
			if builtin[widget.Definition.Code] {
				fmt.Fprintf(out, "%s: %s replaces a built-in widget\n", path, widget.Definition.Code)
			}
		}
		fmt.Fprintf(out, "%s: %d widgets ok\n", path, len(doc.Widgets))
	}
	return nil
}
