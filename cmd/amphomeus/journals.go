package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"amphomeus/internal/client"
	"amphomeus/internal/domain"
	"amphomeus/internal/pkg/utils"
)

var (
	listSearch string
	listSort   string
	listTags   []string
	listStart  string
	listEnd    string

	formTitle    string
	formContent  string
	formLocation string
	formDate     string
	formTags     []string
	formFiles    []string

	editRemoveTags  []string
	editRemoveMedia []string

	showJSON   bool
	confirmYes bool
)

var journalsCmd = &cobra.Command{
	Use:     "journals",
	Aliases: []string{"journal", "j"},
	Short:   "Manage journals",
	Long:    `Create, list, show, edit, and delete journals.`,
}

var listJournalsCmd = &cobra.Command{
	Use:   "list",
	Short: "List journals",
	Long:  `List journals, optionally filtered by title, tag ids and a date range.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		q := client.GalleryQuery{
			Search:    listSearch,
			Sort:      listSort,
			TagIDs:    listTags,
			StartDate: listStart,
			EndDate:   listEnd,
		}
		journals, err := api.ListJournals(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("failed to list journals: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(journals) == 0 {
			fmt.Fprintln(out, "No journals found.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tTITLE\tMEDIA\tTAGS")
		for _, j := range journals {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				j.ID, j.Date.UTC().Format(utils.DayLayout), j.Title, len(j.Media), tagNames(j.Tags))
		}
		return tw.Flush()
	},
}

var showJournalCmd = &cobra.Command{
	Use:   "show [journal-id]",
	Short: "Show a journal with its media and tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		j, err := api.GetJournal(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get journal: %w", err)
		}

		if showJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(j)
		}
		printJournal(cmd.OutOrStdout(), j)
		return nil
	},
}

var newJournalCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a journal",
	Long:  `Create a journal. Every --file is uploaded first; the journal is only saved when all uploads succeed.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		form := client.NewJournalForm()
		form.Title = formTitle
		form.Content = formContent
		form.Location = formLocation
		form.Date = formDate
		for _, t := range formTags {
			form.AddTag(t)
		}
		if err := addFiles(form, formFiles); err != nil {
			return err
		}

		j, err := form.Submit(cmd.Context(), api)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Journal created successfully:")
		printJournal(cmd.OutOrStdout(), j)
		return nil
	},
}

var editJournalCmd = &cobra.Command{
	Use:   "edit [journal-id]",
	Short: "Edit a journal",
	Long: `Edit a journal. Only the flags given are changed; --tag and --file add to
the current tags and media, --remove-tag and --remove-media take them away.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		current, err := api.GetJournal(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to get journal: %w", err)
		}

		form := client.EditJournalForm(current)
		flags := cmd.Flags()
		if flags.Changed("title") {
			form.Title = formTitle
		}
		if flags.Changed("content") {
			form.Content = formContent
		}
		if flags.Changed("location") {
			form.Location = formLocation
		}
		if flags.Changed("date") {
			form.Date = formDate
		}
		for _, t := range editRemoveTags {
			form.RemoveTag(strings.TrimSpace(t))
		}
		for _, t := range formTags {
			form.AddTag(t)
		}
		for _, id := range editRemoveMedia {
			if !form.MarkForDeletion(id) {
				return fmt.Errorf("media %s does not belong to journal %s", id, current.ID)
			}
		}
		if err := addFiles(form, formFiles); err != nil {
			return err
		}

		j, err := form.Submit(cmd.Context(), api)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Journal updated successfully:")
		printJournal(cmd.OutOrStdout(), j)
		return nil
	},
}

var deleteJournalCmd = &cobra.Command{
	Use:   "delete [journal-id]",
	Short: "Delete a journal and its media",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		if !confirmYes {
			ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
				fmt.Sprintf("Delete journal %s and all of its media? This cannot be undone. [y/N] ", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		msg, err := api.DeleteJournal(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete journal: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	},
}

func addFiles(form *client.JournalForm, paths []string) error {
	files := make([]client.PendingFile, 0, len(paths))
	for _, p := range paths {
		f, err := client.FileFromPath(p)
		if err != nil {
			return err
		}
		files = append(files, f)
	}
	if errs := form.AddFiles(files...); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func printJournal(w io.Writer, j *domain.Journal) {
	fmt.Fprintf(w, "ID:       %s\n", j.ID)
	fmt.Fprintf(w, "Title:    %s\n", j.Title)
	fmt.Fprintf(w, "Date:     %s\n", j.Date.UTC().Format(utils.DayLayout))
	if j.Location != nil {
		fmt.Fprintf(w, "Location: %s\n", *j.Location)
	}
	if len(j.Tags) > 0 {
		fmt.Fprintf(w, "Tags:     %s\n", tagNames(j.Tags))
	}
	if j.Content != nil {
		fmt.Fprintf(w, "\n%s\n", *j.Content)
	}
	if len(j.Media) > 0 {
		fmt.Fprintln(w, "\nMedia:")
		for _, m := range j.Media {
			fmt.Fprintf(w, "  %s  %-5s  %s\n", m.ID, m.MediaType, m.URL)
		}
	}
}

func tagNames(tags []domain.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return strings.Join(names, ", ")
}

func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&formTitle, "title", "", "Journal title")
	cmd.Flags().StringVar(&formContent, "content", "", "Journal text")
	cmd.Flags().StringVar(&formLocation, "location", "", "Where it happened")
	cmd.Flags().StringVar(&formDate, "date", "", "Day of the entry (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&formTags, "tag", nil, "Tag name (repeatable)")
	cmd.Flags().StringSliceVar(&formFiles, "file", nil, "Photo or video to upload (repeatable)")
}

func initJournalsCmd() {
	listJournalsCmd.Flags().StringVar(&listSearch, "search", "", "Case-insensitive title search")
	listJournalsCmd.Flags().StringVar(&listSort, "sort", "date_desc", "date_desc, date_asc, title_asc or title_desc")
	listJournalsCmd.Flags().StringSliceVar(&listTags, "tag", nil, "Tag id; journals with any of them match (repeatable)")
	listJournalsCmd.Flags().StringVar(&listStart, "start", "", "First day (YYYY-MM-DD)")
	listJournalsCmd.Flags().StringVar(&listEnd, "end", "", "Last day, inclusive (YYYY-MM-DD)")

	showJournalCmd.Flags().BoolVar(&showJSON, "json", false, "Print the raw journal as JSON")

	addFormFlags(newJournalCmd)
	newJournalCmd.MarkFlagRequired("title")

	addFormFlags(editJournalCmd)
	editJournalCmd.Flags().StringSliceVar(&editRemoveTags, "remove-tag", nil, "Tag name to remove (repeatable)")
	editJournalCmd.Flags().StringSliceVar(&editRemoveMedia, "remove-media", nil, "Media id to delete (repeatable)")

	deleteJournalCmd.Flags().BoolVarP(&confirmYes, "yes", "y", false, "Do not ask for confirmation")

	journalsCmd.AddCommand(
		listJournalsCmd,
		showJournalCmd,
		newJournalCmd,
		editJournalCmd,
		deleteJournalCmd,
	)
}
