package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"coinfixi/internal/admin"
	"coinfixi/internal/api"
	"coinfixi/internal/logging"
)

// actionRun performs one mutating call. It returns the line to print on
// success; an empty string prints the default acknowledgement.
type actionRun func(ctx context.Context, c *api.Client, args []string) (string, error)

// newAction builds a command for a mutating API call. The call is recorded
// in the journal under resource/action with the first argument as the id.
func newAction(use, short, resource, action string, nargs int, note *string, run actionRun) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.requireLogin(); err != nil {
				return err
			}

			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			text := ""
			if note != nil {
				text = *note
			}

			ctx, cancel := e.withTimeout(cmd.Context())
			defer cancel()

			var msg string
			err = e.track(ctx, action, resource, id, text, func() error {
				var err error
				msg, err = run(ctx, e.client, args)
				return err
			})
			if err != nil {
				return fmt.Errorf("%s %s: %w", resource, action, err)
			}

			logging.Get(logging.CategoryAPI).Infow("action done", "resource", resource, "action", action, "id", id)
			if msg == "" {
				msg = fmt.Sprintf("%s %s: %s", resource, id, action)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

var (
	actReason     string
	actNote       string
	actInternal   bool
	actDepartment string
	actDocuments  []string
	actResolution string
	actClientID   string
	actPeriod     string
	actLimits     api.ClientLimits
	actStart      string
	actEnd        string
	actMessage    string
)

func clientsCmd() *cobra.Command {
	parent := &cobra.Command{Use: "clients", Short: "Act on client accounts"}

	suspend := newAction("suspend <client-id>", "Suspend a client", "clients", "suspend", 1, &actReason,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.SuspendClient(ctx, args[0], api.ReasonRequest{Reason: actReason})
		})
	suspend.Flags().StringVar(&actReason, "reason", "", "Why the client is suspended")

	resume := newAction("resume <client-id>", "Resume a suspended client", "clients", "resume", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.ResumeClient(ctx, args[0])
		})

	limits := newAction("limits <client-id>", "Update client transaction limits", "clients", "update_limits", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			got, err := c.UpdateClientLimits(ctx, args[0], actLimits)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("limits for %s: daily %s, monthly %s, single %s, 2FA above %s",
				args[0],
				admin.USD(got.DailyWithdrawalLimit), admin.USD(got.MonthlyVolumeLimit),
				admin.USD(got.SingleTransactionMax), admin.USD(got.Require2FAAbove)), nil
		})
	limits.Flags().Float64Var(&actLimits.DailyWithdrawalLimit, "daily", 0, "Daily withdrawal limit (USD)")
	limits.Flags().Float64Var(&actLimits.MonthlyVolumeLimit, "monthly", 0, "Monthly volume limit (USD)")
	limits.Flags().Float64Var(&actLimits.SingleTransactionMax, "single", 0, "Single transaction maximum (USD)")
	limits.Flags().Float64Var(&actLimits.Require2FAAbove, "require-2fa-above", 0, "Require 2FA above this amount (USD)")

	impersonate := newAction("impersonate <client-id>", "Get a token that acts as the client", "clients", "impersonate", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return c.ImpersonateClient(ctx, args[0])
		})

	parent.AddCommand(suspend, resume, limits, impersonate)
	return parent
}

func transactionsCmd() *cobra.Command {
	parent := &cobra.Command{Use: "tx", Aliases: []string{"transactions"}, Short: "Act on transactions"}

	approve := newAction("approve <tx-id>", "Approve a held transaction", "transactions", "approve", 1, &actNote,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.ApproveTransaction(ctx, args[0], api.NoteRequest{Note: actNote})
		})
	approve.Flags().StringVar(&actNote, "note", "", "Optional approval note")

	reject := newAction("reject <tx-id>", "Reject a held transaction", "transactions", "reject", 1, &actReason,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.RejectTransaction(ctx, args[0], api.ReasonRequest{Reason: actReason})
		})
	reject.Flags().StringVar(&actReason, "reason", "", "Why the transaction is rejected")

	note := newAction("note <tx-id>", "Add a note to a transaction", "transactions", "add_note", 1, &actNote,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			id, err := c.AddTransactionNote(ctx, args[0], api.TransactionNote{Note: actNote, IsInternal: actInternal})
			if err != nil || id == "" {
				return "", err
			}
			return "note " + id + " added to " + args[0], nil
		})
	note.Flags().StringVar(&actNote, "note", "", "Note text")
	note.Flags().BoolVar(&actInternal, "internal", true, "Hide the note from the client")

	escalate := newAction("escalate <tx-id>", "Escalate a transaction to a department", "transactions", "escalate", 1, &actDepartment,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.EscalateTransaction(ctx, args[0], api.EscalateRequest{Department: actDepartment})
		})
	escalate.Flags().StringVar(&actDepartment, "department", "", "compliance, finance or support")

	parent.AddCommand(approve, reject, note, escalate)
	return parent
}

func alertsCmd() *cobra.Command {
	parent := &cobra.Command{Use: "alerts", Short: "Act on transaction alerts"}
	ack := newAction("ack <alert-id>", "Acknowledge an alert", "alerts", "acknowledge", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.AcknowledgeAlert(ctx, args[0])
		})
	parent.AddCommand(ack)
	return parent
}

func kycCmd() *cobra.Command {
	parent := &cobra.Command{Use: "kyc", Short: "Decide client KYC reviews"}

	approve := newAction("approve <client-id>", "Approve a client's KYC", "compliance", "kyc_approve", 1, &actNote,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.ApproveKYC(ctx, args[0], api.NoteRequest{Note: actNote})
		})
	approve.Flags().StringVar(&actNote, "note", "", "Optional note")

	reject := newAction("reject <client-id>", "Reject a client's KYC", "compliance", "kyc_reject", 1, &actReason,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.RejectKYC(ctx, args[0], api.ReasonRequest{Reason: actReason})
		})
	reject.Flags().StringVar(&actReason, "reason", "", "Why the KYC is rejected")

	update := newAction("request-update <client-id>", "Ask a client for new documents", "compliance", "kyc_request_update", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.RequestKYCUpdate(ctx, args[0], api.DocumentsRequest{Documents: actDocuments})
		})
	update.Flags().StringSliceVar(&actDocuments, "documents", nil, "Documents to request (id_front, id_back, proof_of_address, business_registration, tax_id, other)")

	parent.AddCommand(approve, reject, update)
	return parent
}

func flagsCmd() *cobra.Command {
	parent := &cobra.Command{Use: "flags", Short: "Resolve compliance flags"}
	resolve := newAction("resolve <flag-id>", "Resolve a compliance flag", "compliance", "flag_resolve", 1, &actResolution,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.ResolveFlag(ctx, args[0], api.ResolutionRequest{Resolution: actResolution})
		})
	resolve.Flags().StringVar(&actResolution, "resolution", "", "How the flag was resolved")
	parent.AddCommand(resolve)
	return parent
}

func integrationsCmd() *cobra.Command {
	parent := &cobra.Command{Use: "integrations", Short: "Manage compliance integrations"}
	sync := newAction("sync <provider>", "Trigger a provider sync", "integrations", "sync", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.SyncIntegration(ctx, args[0])
		})
	parent.AddCommand(sync)
	return parent
}

func invoicesCmd() *cobra.Command {
	parent := &cobra.Command{Use: "invoices", Short: "Act on invoices"}

	paid := newAction("mark-paid <invoice-id>", "Mark an invoice as paid", "invoices", "mark_paid", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.MarkInvoicePaid(ctx, args[0])
		})

	generate := newAction("generate", "Generate an invoice for a client and period", "invoices", "generate", 0, &actPeriod,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			id, err := c.GenerateInvoice(ctx, api.GenerateInvoiceRequest{ClientID: actClientID, Period: actPeriod})
			if err != nil {
				return "", err
			}
			return "invoice " + id + " generated for " + actClientID, nil
		})
	generate.Flags().StringVar(&actClientID, "client", "", "Client id")
	generate.Flags().StringVar(&actPeriod, "period", "", "Billing period, e.g. 2024-05")

	parent.AddCommand(paid, generate)
	return parent
}

func usersCmd() *cobra.Command {
	parent := &cobra.Command{Use: "users", Short: "Act on admin users"}

	suspend := newAction("suspend <user-id>", "Suspend an admin user", "users", "suspend", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.SuspendUser(ctx, args[0])
		})
	reactivate := newAction("reactivate <user-id>", "Reactivate an admin user", "users", "reactivate", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.ReactivateUser(ctx, args[0])
		})
	reset := newAction("reset-password <user-id>", "Send a password reset", "users", "reset_password", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			link, err := c.ResetPassword(ctx, args[0])
			if err != nil || link == "" {
				return "", err
			}
			return "reset link: " + link, nil
		})

	parent.AddCommand(suspend, reactivate, reset)
	return parent
}

func webhooksCmd() *cobra.Command {
	parent := &cobra.Command{Use: "webhooks", Short: "Manage global webhooks"}
	del := newAction("delete <webhook-id>", "Delete a global webhook", "webhooks", "delete", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "", c.DeleteWebhook(ctx, args[0])
		})
	parent.AddCommand(del)
	return parent
}

func nodesCmd() *cobra.Command {
	parent := &cobra.Command{Use: "nodes", Short: "Probe blockchain nodes"}
	test := newAction("test <chain>", "Test the RPC node of a chain (BTC, ETH, TRON, BEP20, BSC, POLYGON)", "nodes", "test", 1, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			res, err := c.TestBlockchainNode(ctx, api.NodeTestRequest{Chain: args[0]})
			if err != nil {
				return "", err
			}
			state := "offline"
			if res.Online {
				state = "online"
			}
			return fmt.Sprintf("%s node %s (%.0f ms)", args[0], state, res.Latency), nil
		})
	parent.AddCommand(test)
	return parent
}

func maintenanceCmd() *cobra.Command {
	parent := &cobra.Command{Use: "maintenance", Short: "Schedule or end maintenance mode"}

	enable := newAction("enable", "Enable maintenance mode", "system", "maintenance_enable", 0, &actMessage,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "maintenance scheduled", c.EnableMaintenance(ctx, api.MaintenanceRequest{
				StartTime: actStart,
				EndTime:   actEnd,
				Message:   actMessage,
			})
		})
	enable.Flags().StringVar(&actStart, "start", "", "Start time (RFC 3339)")
	enable.Flags().StringVar(&actEnd, "end", "", "End time (RFC 3339)")
	enable.Flags().StringVar(&actMessage, "message", "", "Message shown to clients")

	disable := newAction("disable", "Disable maintenance mode", "system", "maintenance_disable", 0, nil,
		func(ctx context.Context, c *api.Client, args []string) (string, error) {
			return "maintenance disabled", c.DisableMaintenance(ctx)
		})

	parent.AddCommand(enable, disable)
	return parent
}

func init() {
	rootCmd.AddCommand(
		clientsCmd(),
		transactionsCmd(),
		alertsCmd(),
		kycCmd(),
		flagsCmd(),
		integrationsCmd(),
		invoicesCmd(),
		usersCmd(),
		webhooksCmd(),
		nodesCmd(),
		maintenanceCmd(),
	)
}
