package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resume-builder/internal/resumes"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate resume content with AI",
}

var generateSummaryCmd = &cobra.Command{
	Use:   "summary <resume-id>",
	Short: "Generate a professional summary for a stored resume",
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
		text, err := b.GenerateSummary(cmd.Context(), r)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var generateWorkCmd = &cobra.Command{
	Use:   "work-experience <description...>",
	Short: "Turn a free-text description into a work experience entry",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, done, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer done()
		w, err := b.GenerateWorkExperience(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resumes.WorkExperienceToDTO(w))
	},
}

func init() {
	generateCmd.AddCommand(generateSummaryCmd, generateWorkCmd)
	rootCmd.AddCommand(generateCmd)
}
