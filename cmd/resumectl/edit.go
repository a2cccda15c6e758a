package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"resume-builder/internal/editor"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/config"
)

// editScript is the JSON file driven by `resumectl edit`.
type editScript struct {
	ResumeID string       `json:"resumeId,omitempty"`
	Steps    []scriptStep `json:"steps"`
}

// scriptStep fills one wizard step. Data uses the resume wire format. On the
// summary step Generate asks the AI for the text; on the work-experience step
// Describe appends AI-structured entries.
type scriptStep struct {
	Kind     editor.StepKind `json:"kind"`
	Data     json.RawMessage `json:"data,omitempty"`
	Generate bool            `json:"generate,omitempty"`
	Describe []string        `json:"describe,omitempty"`
}

var (
	editPause       time.Duration
	editQuietWindow time.Duration
)

var editCmd = &cobra.Command{
	Use:   "edit <script.json|script.yaml>",
	Short: "Fill the resume wizard from a script with autosave",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("quiet") {
			editQuietWindow = config.Load().QuietWindow
		}
		script, err := readScript(args[0])
		if err != nil {
			return err
		}
		b, done, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer done()
		saved, err := runEdit(cmd.Context(), b, script, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s (version %d)\n", saved.ID, saved.Version)
		return nil
	},
}

func init() {
	editCmd.Flags().DurationVar(&editPause, "pause", 0, "wait between steps, as a person typing would")
	editCmd.Flags().DurationVar(&editQuietWindow, "quiet", editor.DefaultQuietWindow, "autosave quiet window (default from EDITOR_QUIET_WINDOW)")
	rootCmd.AddCommand(editCmd)
}

func readScript(path string) (editScript, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return editScript{}, fmt.Errorf("read script: %w", err)
	}
	var s editScript
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		s, err = parseYAMLScript(raw)
	default:
		err = json.Unmarshal(raw, &s)
	}
	if err != nil {
		return editScript{}, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return editScript{}, fmt.Errorf("script has no steps")
	}
	return s, nil
}

// yamlStep mirrors scriptStep; data is re-encoded to JSON for DecodeStep.
type yamlStep struct {
	Kind     editor.StepKind `yaml:"kind"`
	Data     map[string]any  `yaml:"data"`
	Generate bool            `yaml:"generate"`
	Describe []string        `yaml:"describe"`
}

func parseYAMLScript(raw []byte) (editScript, error) {
	var doc struct {
		ResumeID string     `yaml:"resumeId"`
		Steps    []yamlStep `yaml:"steps"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return editScript{}, err
	}
	out := editScript{ResumeID: doc.ResumeID}
	for _, st := range doc.Steps {
		step := scriptStep{Kind: st.Kind, Generate: st.Generate, Describe: st.Describe}
		if len(st.Data) > 0 {
			data, err := json.Marshal(st.Data)
			if err != nil {
				return editScript{}, fmt.Errorf("step %s: %w", st.Kind, err)
			}
			step.Data = data
		}
		out.Steps = append(out.Steps, step)
	}
	return out, nil
}

// runEdit replays script through an editor session and returns the persisted document.
func runEdit(ctx context.Context, b backend, script editScript, out io.Writer) (resumes.Resume, error) {
	var initial resumes.Resume
	if script.ResumeID != "" {
		r, err := b.Get(ctx, script.ResumeID)
		if err != nil {
			return resumes.Resume{}, fmt.Errorf("load resume: %w", err)
		}
		initial = r
	}
	level, err := b.Level(ctx)
	if err != nil {
		return resumes.Resume{}, fmt.Errorf("resolve plan: %w", err)
	}

	session := editor.NewSession(initial, b, editor.Options{
		QuietWindow: editQuietWindow,
		Level:       level,
		Generator:   b,
		OnSaved: func(r resumes.Resume) {
			fmt.Fprintf(out, "  autosaved %s v%d\n", r.ID, r.Version)
		},
		OnError: func(err error) {
			fmt.Fprintf(out, "  save failed (%s): %v\n", editor.Classify(err), err)
		},
	})
	session.Start()
	defer session.Close()

	kinds := make([]editor.StepKind, 0, len(script.Steps))
	for _, st := range script.Steps {
		kinds = append(kinds, st.Kind)
	}
	seq := editor.NewSequencer(kinds...)
	for _, st := range script.Steps {
		fmt.Fprintf(out, "[%d/%d] %s\n", seq.Index()+1, seq.Len(), seq.Current())
		if err := applyStep(ctx, session, st); err != nil {
			return resumes.Resume{}, fmt.Errorf("step %s: %w", st.Kind, err)
		}
		seq.Next()
		if editPause > 0 {
			select {
			case <-ctx.Done():
				return resumes.Resume{}, ctx.Err()
			case <-time.After(editPause):
			}
		}
	}

	if err := session.Flush(ctx); err != nil {
		return resumes.Resume{}, fmt.Errorf("final save (%s): %w", editor.Classify(err), err)
	}
	if err := session.ConfirmExit(); err != nil {
		return resumes.Resume{}, err
	}
	return session.Document(), nil
}

func applyStep(ctx context.Context, session *editor.Session, st scriptStep) error {
	if len(st.Data) > 0 {
		step, err := editor.DecodeStep(st.Kind, st.Data)
		if err != nil {
			return err
		}
		if err := session.Submit(step); err != nil {
			return err
		}
	}
	switch {
	case st.Kind == editor.StepSummary && st.Generate:
		_, err := session.GenerateSummary(ctx)
		return err
	case st.Kind == editor.StepWorkExperience:
		for _, d := range st.Describe {
			if _, err := session.GenerateWorkExperience(ctx, d); err != nil {
				return err
			}
		}
	}
	return nil
}
