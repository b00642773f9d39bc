package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-viewkit/pkg/datasource"
	"github.com/goliatone/go-viewkit/pkg/entity"
	"github.com/goliatone/go-viewkit/pkg/formcontext"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	fieldColor   = color.New(color.FgGreen)
	mutedColor   = color.New(color.FgHiBlack)
)

func newInspectCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [source [field...]]",
		Short: "List data sources or show the input constraints derived for fields.",
		Example: `  viewkit inspect
  viewkit inspect Articles
  viewkit inspect Articles title comments.0.body`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kit, err := root.kit(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				return listSources(out, kit.Sources())
			}
			return inspectSource(out, kit.Sources(), args[0], args[1:])
		},
	}
}

func listSources(out io.Writer, sources *datasource.Registry) error {
	for _, name := range sources.Names() {
		source, err := sources.Get(name)
		if err != nil {
			return err
		}
		headingColor.Fprintln(out, name)
		for _, rel := range source.Relationships() {
			target := ""
			if rel.Target != nil {
				target = rel.Target.Name()
			}
			mutedColor.Fprintf(out, "  %s %s -> %s (%s)\n", rel.Kind, rel.Property, target, rel.ForeignKey)
		}
	}
	return nil
}

func inspectSource(out io.Writer, sources *datasource.Registry, name string, fields []string) error {
	source, err := sources.Get(name)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		if lister, ok := source.Schema().(interface{ Columns() []string }); ok {
			fields = lister.Columns()
		}
	}

	ctx := formcontext.NewEntityContext(entity.New(name, nil), source)
	headingColor.Fprintln(out, name)
	for _, field := range fields {
		fieldColor.Fprintf(out, "  %s", field)
		fmt.Fprintf(out, "  %s\n", strings.Join(describe(ctx, field), " "))
	}
	return nil
}

// describe lists the constraints a form input for field would carry.
func describe(ctx formcontext.Context, field string) []string {
	parts := []string{ctx.Type(field)}
	if ctx.IsPrimaryKey(field) {
		parts = append(parts, "primary")
	}
	if ctx.IsRequired(field) {
		parts = append(parts, "required")
	}
	if v, ok := ctx.Min(field).Get(); ok {
		parts = append(parts, "min="+cast.ToString(v))
	}
	if v, ok := ctx.Max(field).Get(); ok {
		parts = append(parts, "max="+cast.ToString(v))
	}
	if v, ok := ctx.Step(field).Get(); ok {
		parts = append(parts, "step="+v)
	}
	if v, ok := ctx.MaxLength(field).Get(); ok {
		parts = append(parts, "maxlength="+cast.ToString(v))
	}
	if v, ok := ctx.DefaultValue(field).Get(); ok {
		parts = append(parts, "default="+cast.ToString(v))
	}
	if choices := ctx.Choices(field); len(choices) > 0 {
		parts = append(parts, "choices="+strings.Join(choices, "|"))
	}
	return parts
}
