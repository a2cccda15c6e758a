package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"resume-builder/internal/resumes"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your resumes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		b, done, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer done()
		page, err := b.List(cmd.Context())
		if err != nil {
			return err
		}
		return printList(cmd.OutOrStdout(), page)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print one resume as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, done, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer done()
		r, err := b.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resumes.ToDTO(r))
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a resume and its photo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, done, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer done()
		if err := b.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd, getCmd, deleteCmd)
}

func printList(w io.Writer, page resumes.ListResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tVERSION\tUPDATED")
	for _, r := range page.Resumes {
		updated := ""
		if r.UpdatedAt != nil {
			updated = r.UpdatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ID, r.Title, r.Version, updated)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "%d resume(s), plan %s, can create: %t\n", page.TotalCount, page.Level, page.CanCreate)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
