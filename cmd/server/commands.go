package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agri-advisor/internal/usecase"
)

func newCommandsCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List the canned chat commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("file") {
				path = a.cfg.CommandsFile
			}
			return printCommands(cmd, path)
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "command table YAML (defaults to COMMANDS_FILE, then the built-in table)")
	return cmd
}

func printCommands(cmd *cobra.Command, path string) error {
	table, err := usecase.LoadCommandTable(path)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, phrase := range table.Phrases() {
		reply, _ := table.Lookup(phrase)
		fmt.Fprintf(w, "%s\t%s\n", phrase, reply)
	}
	return w.Flush()
}
