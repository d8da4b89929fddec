package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var usageExamples = []struct {
	desc    string
	command string
}{
	{
		desc:    "1. test connection to cloud cms",
		command: "cmsctl --gitana-file-path ./gitana.json --test",
	},
	{
		desc:    "2. touch nodes found by query",
		command: "cmsctl --gitana-file-path ./gitana.json --touch --query-file-path ./touch-query.json",
	},
}

func helpFunc(cmd *cobra.Command, _ []string) {
	_ = usageFunc(cmd)
}

func usageFunc(cmd *cobra.Command) error {
	return printUsage(cmd.OutOrStdout(), cmd)
}

// printUsage renders the usage of the root command, with all its options and examples
func printUsage(w io.Writer, cmd *cobra.Command) error {
	header := color.New(color.Bold).SprintFunc()

	if cmd.HasParent() {
		_, err := fmt.Fprintf(w, "%s\n\n  %s\n\nUsage:\n  %s\n", header(cmd.Name()), cmd.Short, cmd.UseLine())
		return err
	}

	var b strings.Builder
	b.WriteString(header("Cloud CMS Script") + "\n\n")
	b.WriteString("  Touch nodes a Cloud CMS project branch.\n\n")

	b.WriteString(header("Options") + "\n\n")
	b.WriteString(optionsTable(cmd.Flags()) + "\n\n")

	b.WriteString(header("Examples") + "\n\n")
	for _, example := range usageExamples {
		b.WriteString("  " + example.desc + "\n")
		b.WriteString("  " + example.command + "\n\n")
	}

	if cmds := cmd.Commands(); len(cmds) > 0 {
		b.WriteString(header("Commands") + "\n\n")
		table := uitable.New()
		for _, sub := range cmds {
			if !sub.IsAvailableCommand() {
				continue
			}
			table.AddRow("  "+sub.Name(), sub.Short)
		}
		b.WriteString(table.String() + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func optionsTable(flags *pflag.FlagSet) string {
	table := uitable.New()
	table.MaxColWidth = 80
	table.Wrap = true
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		name := "      --" + f.Name
		if f.Shorthand != "" {
			name = "  -" + f.Shorthand + ", --" + f.Name
		}
		if t := f.Value.Type(); t != "bool" {
			name += " " + t
		}
		desc := f.Usage
		if f.DefValue != "" && f.Value.Type() != "bool" && f.DefValue != "0s" && f.DefValue != "0" {
			desc += fmt.Sprintf(" (default %q)", f.DefValue)
		}
		table.AddRow(name, desc)
	})
	return table.String()
}
