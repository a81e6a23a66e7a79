package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/puter-go/core/registry"
)

func newModelsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the registered models and their drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := flags.registry()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderModels(reg, flags.model))
			return nil
		},
	}
}

// renderModels lists every model with its driver, marking current.
func renderModels(reg *registry.Registry, current string) string {
	names := reg.Names()
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%d models", len(names))))
	sb.WriteString("\n")
	for _, name := range names {
		driver, _ := reg.Driver(name)
		line := fmt.Sprintf("  %-*s  %s", width, name, infoStyle.Render(driver))
		if name == current {
			line = currentStyle.Render("* ") + line[2:]
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
