package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"coinfixi/cmd/fixi/ui"
	"coinfixi/internal/admin"
	"coinfixi/internal/api"
	"coinfixi/internal/table"
)

var (
	listSearch  string
	listSort    string
	listDesc    bool
	listJSON    bool
	listShow    bool
	listPage    int
	listLimit   int
	listFilters []string

	showRaw bool
)

var listCmd = &cobra.Command{
	Use:   "list <resource>",
	Short: "List a resource through the record table",
	Long: `Fetch a resource and print it filtered and sorted like the console does.

Resources: ` + strings.Join(admin.Names(), ", ") + `

Examples:
  fixi list clients --search acme --sort monthly_volume --desc
  fixi list transactions --filter status=pending --json
  fixi list alerts --show`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

// Detail endpoints for the resources that have one.
var detailPaths = map[string]string{
	"clients":      api.PathClients,
	"transactions": api.PathTransactions,
	"compliance":   api.PathComplianceChecks,
	"invoices":     api.PathInvoices,
	"users":        api.PathUsers,
}

var showCmd = &cobra.Command{
	Use:   "show <resource> <id>",
	Short: "Show one record in full",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Case-insensitive search across all fields")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Column key to sort by")
	listCmd.Flags().BoolVar(&listDesc, "desc", false, "Sort descending")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the rendered table as JSON")
	listCmd.Flags().BoolVar(&listShow, "show", false, "Print every shown row as a detail card")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page to fetch")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Rows per page (default: api.page_size)")
	listCmd.Flags().StringArrayVarP(&listFilters, "filter", "f", nil, "Server-side filter key=value (repeatable)")
	listCmd.Flags().BoolVar(&showRaw, "raw", false, "With --show, print markdown without terminal styling")

	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print markdown without terminal styling")
}

func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid filter %q (want key=value)", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func runList(cmd *cobra.Command, args []string) error {
	res, err := admin.Lookup(args[0])
	if err != nil {
		return err
	}
	filters, err := parseFilters(listFilters)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	limit := listLimit
	if limit <= 0 {
		limit = cfg.API.PageSize
	}
	q := admin.Query{
		Params: api.ListParams{Page: listPage, Limit: limit, Filters: filters},
		Search: listSearch,
		Sort:   listSort,
	}
	if listDesc {
		q.Dir = table.Desc
	}

	ctx, cancel := e.withTimeout(cmd.Context())
	defer cancel()

	snap, err := res.Load(ctx, e.client, q)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case listJSON:
		return writeJSON(out, snap)
	case listShow:
		printCards(out, snap, showRaw)
		return nil
	}
	printSnapshot(out, snap, ui.NewStyles(ui.DetectTheme(cfg.UI.Theme)))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printSnapshot prints a grid, or the empty message, plus pagination.
func printSnapshot(w io.Writer, snap *admin.Snapshot, styles ui.Styles) {
	fmt.Fprintln(w, styles.Title.Render(snap.Title))
	if snap.Phase == table.Empty.String() {
		fmt.Fprintln(w, styles.Muted.Render(snap.Message))
		return
	}

	grid := ui.NewGrid(snap.Headers)
	grid.Rows = snap.Cells
	if listSort != "" {
		for i, k := range snap.Keys {
			if k == listSort {
				grid.SortCol = i
			}
		}
		if listDesc {
			grid.SortDir = table.Desc
		}
	}
	fmt.Fprintln(w, grid.View(styles))
	fmt.Fprintln(w, styles.Muted.Render(snap.Summary()))

	if p := snap.Pagination; p.Pages > 1 {
		fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("Page %d of %d (%d total)", p.Page, p.Pages, p.Total)))
	}
}

func printCards(w io.Writer, snap *admin.Snapshot, raw bool) {
	if snap.Phase == table.Empty.String() {
		fmt.Fprintln(w, snap.Message)
		return
	}
	for i, rec := range snap.Records {
		md := ui.RecordMarkdown(fmt.Sprintf("%s #%d", snap.Title, i+1), table.Record[string](rec))
		fmt.Fprint(w, renderCard(md, raw))
	}
}

func renderCard(md string, raw bool) string {
	if raw {
		return md + "\n"
	}
	return ui.RenderMarkdown(md, 100, ui.DetectTheme(cfg.UI.Theme).IsDark)
}

func runShow(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(args[0])
	path, ok := detailPaths[name]
	if !ok {
		return fmt.Errorf("%w: %q has no detail view (try: fixi list %s --search %s)", admin.ErrUnknownResource, args[0], args[0], args[1])
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.requireLogin(); err != nil {
		return err
	}

	ctx, cancel := e.withTimeout(cmd.Context())
	defer cancel()

	rec, err := api.GetRecord[string](ctx, e.client, path+"/"+url.PathEscape(args[1]))
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), renderCard(ui.RecordMarkdown(name+" "+args[1], rec), showRaw))
	return nil
}
