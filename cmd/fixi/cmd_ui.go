package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"coinfixi/cmd/fixi/ui"
	"coinfixi/internal/admin"
	"coinfixi/internal/api"
	"coinfixi/internal/logging"
	"coinfixi/internal/session"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Start the interactive console (default)",
	RunE:  runUI,
}

// journaled wraps an API call as a console action recorded in the journal.
func (e *env) journaled(resource, action string, fn func(ctx context.Context, c *api.Client, id string) error) func(context.Context, string) error {
	return func(ctx context.Context, id string) error {
		ctx, cancel := e.withTimeout(ctx)
		defer cancel()
		return e.track(ctx, action, resource, id, "", func() error {
			return fn(ctx, e.client, id)
		})
	}
}

// consolePages builds one page per resource, in tab order.
func consolePages(e *env, styles ui.Styles) ([]ui.Page, error) {
	size := cfg.API.PageSize
	c := e.client

	type timedPage interface {
		ui.Page
		SetTimeout(time.Duration)
	}

	var pages []ui.Page
	var errs []error
	add := func(p timedPage, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		p.SetTimeout(requestTimeout())
		pages = append(pages, p)
	}

	resume := e.journaled("clients", "resume", func(ctx context.Context, c *api.Client, id string) error {
		return c.ResumeClient(ctx, id)
	})
	approve := e.journaled("transactions", "approve", func(ctx context.Context, c *api.Client, id string) error {
		return c.ApproveTransaction(ctx, id, api.NoteRequest{})
	})
	ack := e.journaled("alerts", "acknowledge", func(ctx context.Context, c *api.Client, id string) error {
		return c.AcknowledgeAlert(ctx, id)
	})
	paid := e.journaled("invoices", "mark_paid", func(ctx context.Context, c *api.Client, id string) error {
		return c.MarkInvoicePaid(ctx, id)
	})
	reactivate := e.journaled("users", "reactivate", func(ctx context.Context, c *api.Client, id string) error {
		return c.ReactivateUser(ctx, id)
	})

	add(ui.NewResourcePage(admin.Clients, c, size, styles, ui.Action{Key: "u", Label: "Resume", Run: resume}))
	add(ui.NewResourcePage(admin.Transactions, c, size, styles, ui.Action{Key: "a", Label: "Approve", Run: approve}))
	add(ui.NewResourcePage(admin.Alerts, c, size, styles, ui.Action{Key: "a", Label: "Acknowledge", Run: ack}))
	add(ui.NewResourcePage(admin.Compliance, c, size, styles))
	add(ui.NewResourcePage(admin.Invoices, c, size, styles, ui.Action{Key: "m", Label: "Mark paid", Run: paid}))
	add(ui.NewResourcePage(admin.Commissions, c, size, styles))
	add(ui.NewResourcePage(admin.Users, c, size, styles, ui.Action{Key: "a", Label: "Reactivate", Run: reactivate}))
	add(ui.NewResourcePage(admin.Activity, c, size, styles))
	add(ui.NewResourcePage(admin.Webhooks, c, size, styles))
	add(ui.NewResourcePage(admin.APIStatuses, c, size, styles))

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return pages, nil
}

func runUI(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	styles := ui.NewStyles(ui.DetectTheme(cfg.UI.Theme))
	pages, err := consolePages(e, styles)
	if err != nil {
		return err
	}
	app := ui.NewApp(pages, styles, e.session.User().Email, e.client.BaseURL())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	log := logging.Get(logging.CategoryUI)

	go func() {
		err := e.store.Watch(ctx, e.session, func(s *session.Session) {
			p.Send(ui.SessionChangedMsg{Session: s})
		})
		if err != nil {
			log.Warnw("session watch stopped", "error", err)
		}
	}()

	if every := cfg.GetRefreshInterval(); every > 0 {
		go func() {
			t := time.NewTicker(every)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					p.Send(ui.RefreshMsg{})
				}
			}
		}()
	}

	log.Infow("console started", "pages", len(pages), "operator", e.String())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}
