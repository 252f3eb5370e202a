package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"amphomeus/internal/client"
)

var suggestSelected []string

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Browse tags",
}

var listTagsCmd = &cobra.Command{
	Use:   "list",
	Short: "List every tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		tags, err := api.ListTags(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		if len(tags) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tags found.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME")
		for _, t := range tags {
			fmt.Fprintf(tw, "%s\t%s\n", t.ID, t.Name)
		}
		return tw.Flush()
	},
}

var suggestTagsCmd = &cobra.Command{
	Use:   "suggest [text]",
	Short: "Suggest existing tags containing text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		tags, err := api.ListTags(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}

		out := cmd.OutOrStdout()
		suggestions := client.SuggestTags(tags, args[0], suggestSelected)
		if len(suggestions) == 0 {
			fmt.Fprintf(out, "No matching tags. %q will be created when used.\n", args[0])
			return nil
		}
		for _, t := range suggestions {
			fmt.Fprintln(out, t.Name)
		}
		return nil
	},
}

func initTagsCmd() {
	suggestTagsCmd.Flags().StringSliceVar(&suggestSelected, "selected", nil, "Tag names already chosen (repeatable)")

	tagsCmd.AddCommand(
		listTagsCmd,
		suggestTagsCmd,
	)
}
