package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/droidcase-labs/droidcase/internal/cli/output"
	"github.com/droidcase-labs/droidcase/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent build history",
		Long:  `List recent build, package, and publish runs recorded for this project.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

// HistoryEntry is the JSON form of one recorded run.
type HistoryEntry struct {
	ID        string `json:"id"`
	App       string `json:"app"`
	Command   string `json:"command"`
	Variant   string `json:"variant"`
	Status    string `json:"status"`
	StartedAt string `json:"started_at"`
	Duration  string `json:"duration,omitempty"`
	APKPath   string `json:"apk_path,omitempty"`
	Error     string `json:"error,omitempty"`
}

func runHistory(cmd *cobra.Command, limit int) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	store, err := cmdCtx.OpenStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListBuilds(limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		entries := make([]HistoryEntry, 0, len(runs))
		for _, run := range runs {
			entries = append(entries, historyEntry(run))
		}
		return r.JSON(entries)
	}

	if len(runs) == 0 {
		r.Muted("No builds recorded yet.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Writer())
	t.AppendHeader(table.Row{"When", "App", "Command", "Variant", "Status", "Duration", "Artefact"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.App,
			run.Command,
			run.Variant,
			string(run.Status),
			formatDuration(run.Duration()),
			run.APKPath,
		})
	}
	if r.EffectiveMode() == output.ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	return nil
}

func historyEntry(run *state.BuildRun) HistoryEntry {
	entry := HistoryEntry{
		ID:        run.ID,
		App:       run.App,
		Command:   run.Command,
		Variant:   run.Variant,
		Status:    string(run.Status),
		StartedAt: run.StartedAt.Format(time.RFC3339),
		APKPath:   run.APKPath,
		Error:     run.Error,
	}
	if d := run.Duration(); d > 0 {
		entry.Duration = formatDuration(d)
	}
	return entry
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
