package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"coinfixi/cmd/fixi/ui"
	"coinfixi/internal/admin"
	"coinfixi/internal/journal"
	"coinfixi/internal/table"
)

var (
	journalResource string
	journalSince    time.Duration
	journalLimit    int
	journalSearch   string
	journalSort     string
	journalDesc     bool
	journalJSON     bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show actions taken from this machine",
	Long: `List the local action journal: every suspend, approve, acknowledge and
other mutating call issued through fixi, with its outcome. Newest first
unless --sort is given.`,
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().StringVar(&journalResource, "resource", "", "Only actions on this resource")
	journalCmd.Flags().DurationVar(&journalSince, "since", 0, "Only actions newer than this (e.g. 24h)")
	journalCmd.Flags().IntVar(&journalLimit, "limit", 50, "Maximum entries to read")
	journalCmd.Flags().StringVarP(&journalSearch, "search", "s", "", "Case-insensitive search across all fields")
	journalCmd.Flags().StringVar(&journalSort, "sort", "", "Column key to sort by")
	journalCmd.Flags().BoolVar(&journalDesc, "desc", false, "Sort descending")
	journalCmd.Flags().BoolVar(&journalJSON, "json", false, "Print entries as JSON")
}

func runJournal(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if e.journal == nil {
		return errors.New("journal is disabled (journal.enabled in config)")
	}

	opts := journal.ListOptions{Resource: journalResource, Limit: journalLimit}
	if journalSince > 0 {
		opts.Since = time.Now().Add(-journalSince)
	}
	entries, err := e.journal.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	view, err := journal.NewView()
	if err != nil {
		return err
	}
	view.SetQuery(journalSearch)
	sortCol := -1
	if journalSort != "" {
		if !view.ToggleSort(journal.Field(journalSort)) {
			return fmt.Errorf("cannot sort journal by %q", journalSort)
		}
		if journalDesc {
			view.State.Direction = table.Desc
		}
		for i, c := range view.Columns() {
			if string(c.Key) == journalSort {
				sortCol = i
			}
		}
	}

	out := cmd.OutOrStdout()
	records := journal.Records(entries)
	if journalJSON {
		return writeJSON(out, view.Derive(records))
	}

	styles := ui.NewStyles(ui.DetectTheme(cfg.UI.Theme))
	res := view.Render(records)
	fmt.Fprintln(out, styles.Title.Render("Journal"))
	if res.Phase == table.Empty {
		fmt.Fprintln(out, styles.Muted.Render(res.Message))
		return nil
	}

	grid := ui.NewGrid(res.Headers)
	grid.Rows = res.Cells
	grid.SortCol = sortCol
	grid.SortDir = view.State.Direction
	grid.Tones = make([][]admin.Tone, len(res.Rows))
	for i, r := range res.Rows {
		if ok, _ := r.Get(journal.FieldSuccess).(bool); !ok {
			grid.Tones[i] = failedRow(len(res.Headers))
		}
	}
	fmt.Fprintln(out, grid.View(styles))
	fmt.Fprintln(out, styles.Muted.Render(res.Summary()))
	return nil
}

func failedRow(n int) []admin.Tone {
	out := make([]admin.Tone, n)
	for i := range out {
		out[i] = admin.ToneError
	}
	return out
}
