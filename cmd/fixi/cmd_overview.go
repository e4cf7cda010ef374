package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"coinfixi/cmd/fixi/ui"
	"coinfixi/internal/admin"
	"coinfixi/internal/api"
	"coinfixi/internal/table"
)

var (
	overviewAlerts int
	overviewJSON   bool
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Show KPIs, system health and the latest open alerts",
	RunE:  runOverview,
}

func init() {
	overviewCmd.Flags().IntVar(&overviewAlerts, "alerts", 5, "Number of open alerts to show")
	overviewCmd.Flags().BoolVar(&overviewJSON, "json", false, "Print as JSON")
}

// overview is what the dashboard home page shows.
type overview struct {
	KPIs   api.GlobalKPIs   `json:"kpis"`
	Health api.SystemHealth `json:"health"`
	Alerts *admin.Snapshot  `json:"alerts"`
}

func runOverview(cmd *cobra.Command, args []string) error {
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

	var ov overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		kpis, err := e.client.KPIs(gctx)
		ov.KPIs = kpis
		return err
	})
	g.Go(func() error {
		health, err := e.client.SystemHealth(gctx)
		ov.Health = health
		return err
	})
	g.Go(func() error {
		snap, err := admin.Alerts.Load(gctx, e.client, admin.Query{
			Params: api.ListParams{Page: 1, Limit: overviewAlerts, Filters: map[string]string{"acknowledged": "false"}},
			Sort:   string(admin.AlertTimestamp),
			Dir:    table.Desc,
		})
		ov.Alerts = snap
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if overviewJSON {
		return writeJSON(cmd.OutOrStdout(), &ov)
	}
	printOverview(cmd.OutOrStdout(), &ov, ui.NewStyles(ui.DetectTheme(cfg.UI.Theme)))
	return nil
}

func printOverview(w io.Writer, ov *overview, styles ui.Styles) {
	k := ov.KPIs
	fmt.Fprintln(w, styles.Title.Render("Overview"))
	fmt.Fprintf(w, "Volume today   %s\n", admin.USD(k.TotalVolumeToday))
	fmt.Fprintf(w, "Volume month   %s\n", admin.USD(k.TotalVolumeMonth))
	fmt.Fprintf(w, "Active clients %d\n", k.ActiveClients)
	fmt.Fprintf(w, "Integrations   %d new\n", k.NewIntegrations)
	fmt.Fprintf(w, "Active alerts  %d\n", k.ActiveAlerts)
	fmt.Fprintf(w, "System         %s (%.2f%% uptime)\n", orDash(k.SystemHealth), k.UptimePercentage)
	fmt.Fprintln(w)

	h := ov.Health
	fmt.Fprintln(w, styles.Subtitle.Render("Health"))
	fmt.Fprintf(w, "API      %.2f%% uptime, %.0f ms, %.2f%% errors\n", h.API.Uptime, h.API.ResponseTime, h.API.ErrorRate)
	fmt.Fprintf(w, "Database %s, %d/%d connections\n", orDash(h.Database.Status), h.Database.Connections, h.Database.MaxConnections)
	fmt.Fprintf(w, "Redis    %s, %.0f%% hit rate\n", orDash(h.Redis.Status), h.Redis.HitsRate)
	fmt.Fprintf(w, "Workers  %d active, %d pending, %d failed (24h)\n", h.Workers.Active, h.Workers.PendingTasks, h.Workers.FailedTasks24h)

	if len(h.BlockchainNodes) > 0 {
		chains := make([]string, 0, len(h.BlockchainNodes))
		for c := range h.BlockchainNodes {
			chains = append(chains, c)
		}
		sort.Strings(chains)

		grid := ui.NewGrid([]string{"Chain", "Status", "Last block", "Behind"})
		grid.Tones = make([][]admin.Tone, len(chains))
		for i, c := range chains {
			n := h.BlockchainNodes[c]
			grid.Rows = append(grid.Rows, []string{c, n.Status, fmt.Sprint(n.LastBlock), fmt.Sprint(n.BlocksBehind)})
			grid.Tones[i] = []admin.Tone{admin.ToneDefault, nodeTone(n)}
		}
		fmt.Fprintln(w, grid.View(styles))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, styles.Subtitle.Render("Open alerts"))
	if ov.Alerts == nil || ov.Alerts.Phase == table.Empty.String() {
		fmt.Fprintln(w, styles.Muted.Render(admin.Alerts.EmptyMessage))
		return
	}
	grid := ui.NewGrid(ov.Alerts.Headers)
	grid.Rows = ov.Alerts.Cells
	fmt.Fprintln(w, grid.View(styles))
}

func nodeTone(n api.NodeStatus) admin.Tone {
	switch {
	case n.Status != "synced" && n.Status != "online":
		return admin.ToneError
	case n.BlocksBehind > 5:
		return admin.ToneWarning
	default:
		return admin.ToneSuccess
	}
}
