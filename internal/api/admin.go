package api

import (
	"context"
	"net/url"
)

// Admin list endpoints.
const (
	PathClients           = "/admin/clients"
	PathTransactions      = "/admin/transactions"
	PathTransactionAlerts = "/admin/transactions/alerts"
	PathComplianceChecks  = "/admin/compliance/checks"
	PathIntegrations      = "/admin/compliance/integrations"
	PathCommissions       = "/admin/finance/commissions"
	PathInvoices          = "/admin/finance/invoices"
	PathUsers             = "/admin/users"
	PathActivityLogs      = "/admin/users/activity-logs"
	PathAPIStatuses       = "/admin/config/api/status"
	PathWebhooks          = "/admin/config/webhooks/global"
	PathKPIs              = "/admin/dashboard/kpis"
	PathSystemHealth      = "/admin/system/health"
	PathFinanceMetrics    = "/admin/finance/metrics"
)

func esc(id string) string { return url.PathEscape(id) }

// Ack is the generic action reply, e.g. {"suspended": true}.
type Ack map[string]any

// GlobalKPIs are the headline dashboard numbers.
type GlobalKPIs struct {
	TotalVolumeToday float64 `json:"total_volume_today"`
	TotalVolumeMonth float64 `json:"total_volume_month"`
	ActiveClients    int     `json:"active_clients"`
	NewIntegrations  int     `json:"new_integrations"`
	ActiveAlerts     int     `json:"active_alerts"`
	SystemHealth     string  `json:"system_health"`
	UptimePercentage float64 `json:"uptime_percentage"`
}

// NodeStatus is the sync state of one blockchain node.
type NodeStatus struct {
	Status       string `json:"status"`
	LastBlock    int64  `json:"last_block"`
	BlocksBehind int64  `json:"blocks_behind"`
	LastCheck    string `json:"last_check"`
}

// SystemHealth summarizes backend components.
type SystemHealth struct {
	API struct {
		Uptime       float64 `json:"uptime"`
		ResponseTime float64 `json:"response_time"`
		ErrorRate    float64 `json:"error_rate"`
	} `json:"api"`
	Database struct {
		Status         string  `json:"status"`
		Connections    int     `json:"connections"`
		MaxConnections int     `json:"max_connections"`
		QueryTimeAvg   float64 `json:"query_time_avg"`
	} `json:"database"`
	Redis struct {
		Status     string  `json:"status"`
		MemoryUsed float64 `json:"memory_used"`
		MemoryMax  float64 `json:"memory_max"`
		HitsRate   float64 `json:"hits_rate"`
	} `json:"redis"`
	Workers struct {
		Active         int `json:"active"`
		Idle           int `json:"idle"`
		FailedTasks24h int `json:"failed_tasks_24h"`
		PendingTasks   int `json:"pending_tasks"`
	} `json:"workers"`
	BlockchainNodes map[string]NodeStatus `json:"blockchain_nodes"`
}

// FinancialMetrics are the revenue figures for a period.
type FinancialMetrics struct {
	TotalRevenueToday       float64 `json:"total_revenue_today"`
	TotalRevenueMonth       float64 `json:"total_revenue_month"`
	TotalRevenueYear        float64 `json:"total_revenue_year"`
	ProjectedMonthlyRevenue float64 `json:"projected_monthly_revenue"`
	AverageFeePercentage    float64 `json:"average_fee_percentage"`
}

// KPIs fetches the dashboard KPIs.
func (c *Client) KPIs(ctx context.Context) (GlobalKPIs, error) {
	resp, err := Get[Response[GlobalKPIs]](ctx, c, PathKPIs, nil)
	return resp.Data, err
}

// SystemHealth fetches backend health.
func (c *Client) SystemHealth(ctx context.Context) (SystemHealth, error) {
	resp, err := Get[Response[SystemHealth]](ctx, c, PathSystemHealth, nil)
	return resp.Data, err
}

// PeriodRequest selects a finance period.
type PeriodRequest struct {
	Period string `json:"period" validate:"oneof=today month year"`
}

// FinanceMetrics fetches revenue figures for period.
func (c *Client) FinanceMetrics(ctx context.Context, req PeriodRequest) (FinancialMetrics, error) {
	if req.Period == "" {
		req.Period = "month"
	}
	if err := check(req); err != nil {
		return FinancialMetrics{}, err
	}
	resp, err := Get[Response[FinancialMetrics]](ctx, c, PathFinanceMetrics, url.Values{"period": {req.Period}})
	return resp.Data, err
}

// ---- clients ----

// ReasonRequest carries a mandatory reason.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// NoteRequest carries an optional note.
type NoteRequest struct {
	Note string `json:"note,omitempty"`
}

// ClientLimits are per-client transaction limits.
type ClientLimits struct {
	DailyWithdrawalLimit float64 `json:"daily_withdrawal_limit" validate:"gte=0"`
	MonthlyVolumeLimit   float64 `json:"monthly_volume_limit" validate:"gte=0"`
	SingleTransactionMax float64 `json:"single_transaction_max" validate:"gte=0"`
	Require2FAAbove      float64 `json:"require_2fa_above" validate:"gte=0"`
}

// SuspendClient suspends a client account.
func (c *Client) SuspendClient(ctx context.Context, clientID string, req ReasonRequest) error {
	return c.action(ctx, PathClients+"/"+esc(clientID)+"/suspend", req)
}

// ResumeClient lifts a suspension.
func (c *Client) ResumeClient(ctx context.Context, clientID string) error {
	return c.action(ctx, PathClients+"/"+esc(clientID)+"/resume", nil)
}

// UpdateClientLimits replaces a client's custom limits.
func (c *Client) UpdateClientLimits(ctx context.Context, clientID string, limits ClientLimits) (ClientLimits, error) {
	if err := check(limits); err != nil {
		return ClientLimits{}, err
	}
	resp, err := Put[Response[ClientLimits]](ctx, c, PathClients+"/"+esc(clientID)+"/limits", limits)
	return resp.Data, err
}

// ImpersonateClient returns a token acting as the client.
func (c *Client) ImpersonateClient(ctx context.Context, clientID string) (string, error) {
	resp, err := Post[Response[struct {
		Token string `json:"token"`
	}]](ctx, c, PathClients+"/"+esc(clientID)+"/impersonate", nil)
	return resp.Data.Token, err
}

// ---- transactions ----

// TransactionNote is an admin note on a transaction.
type TransactionNote struct {
	Note       string `json:"note" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}

// EscalateRequest routes a transaction to a department.
type EscalateRequest struct {
	Department string `json:"department" validate:"required,oneof=compliance finance support"`
}

// ApproveTransaction approves a held transaction.
func (c *Client) ApproveTransaction(ctx context.Context, txID string, req NoteRequest) error {
	return c.action(ctx, PathTransactions+"/"+esc(txID)+"/approve", req)
}

// RejectTransaction rejects a held transaction.
func (c *Client) RejectTransaction(ctx context.Context, txID string, req ReasonRequest) error {
	return c.action(ctx, PathTransactions+"/"+esc(txID)+"/reject", req)
}

// AddTransactionNote attaches a note and returns its id.
func (c *Client) AddTransactionNote(ctx context.Context, txID string, req TransactionNote) (string, error) {
	if err := check(req); err != nil {
		return "", err
	}
	resp, err := Post[Response[struct {
		NoteID string `json:"note_id"`
	}]](ctx, c, PathTransactions+"/"+esc(txID)+"/notes", req)
	return resp.Data.NoteID, err
}

// EscalateTransaction routes a transaction to compliance, finance or support.
func (c *Client) EscalateTransaction(ctx context.Context, txID string, req EscalateRequest) error {
	return c.action(ctx, PathTransactions+"/"+esc(txID)+"/escalate", req)
}

// AcknowledgeAlert marks a transaction alert as seen.
func (c *Client) AcknowledgeAlert(ctx context.Context, alertID string) error {
	return c.action(ctx, PathTransactionAlerts+"/"+esc(alertID)+"/acknowledge", nil)
}

// ---- compliance ----

// DocumentsRequest asks a client for new KYC documents.
type DocumentsRequest struct {
	Documents []string `json:"documents" validate:"min=1,dive,oneof=id_front id_back proof_of_address business_registration tax_id other"`
}

// ResolutionRequest closes a compliance flag.
type ResolutionRequest struct {
	Resolution string `json:"resolution" validate:"required"`
}

// ApproveKYC approves a client's KYC.
func (c *Client) ApproveKYC(ctx context.Context, clientID string, req NoteRequest) error {
	return c.action(ctx, "/admin/compliance/clients/"+esc(clientID)+"/kyc/approve", req)
}

// RejectKYC rejects a client's KYC.
func (c *Client) RejectKYC(ctx context.Context, clientID string, req ReasonRequest) error {
	return c.action(ctx, "/admin/compliance/clients/"+esc(clientID)+"/kyc/reject", req)
}

// RequestKYCUpdate asks the client to re-upload documents.
func (c *Client) RequestKYCUpdate(ctx context.Context, clientID string, req DocumentsRequest) error {
	return c.action(ctx, "/admin/compliance/clients/"+esc(clientID)+"/kyc/request-update", req)
}

// ResolveFlag resolves a compliance flag.
func (c *Client) ResolveFlag(ctx context.Context, flagID string, req ResolutionRequest) error {
	return c.action(ctx, "/admin/compliance/flags/"+esc(flagID)+"/resolve", req)
}

// SyncIntegration triggers a sync with a compliance provider.
func (c *Client) SyncIntegration(ctx context.Context, provider string) error {
	return c.action(ctx, PathIntegrations+"/"+esc(provider)+"/sync", nil)
}

// ---- finance ----

// GenerateInvoiceRequest creates an invoice for a billing period.
type GenerateInvoiceRequest struct {
	ClientID string `json:"client_id" validate:"required"`
	Period   string `json:"period" validate:"required"`
}

// MarkInvoicePaid marks an invoice as paid.
func (c *Client) MarkInvoicePaid(ctx context.Context, invoiceID string) error {
	return c.action(ctx, PathInvoices+"/"+esc(invoiceID)+"/mark-paid", nil)
}

// GenerateInvoice creates an invoice and returns its id.
func (c *Client) GenerateInvoice(ctx context.Context, req GenerateInvoiceRequest) (string, error) {
	if err := check(req); err != nil {
		return "", err
	}
	resp, err := Post[Response[struct {
		ID string `json:"id"`
	}]](ctx, c, PathInvoices+"/generate", req)
	return resp.Data.ID, err
}

// ---- admin users ----

// SuspendUser suspends an admin user.
func (c *Client) SuspendUser(ctx context.Context, userID string) error {
	return c.action(ctx, PathUsers+"/"+esc(userID)+"/suspend", nil)
}

// ReactivateUser reactivates an admin user.
func (c *Client) ReactivateUser(ctx context.Context, userID string) error {
	return c.action(ctx, PathUsers+"/"+esc(userID)+"/reactivate", nil)
}

// ResetPassword returns a password reset link for an admin user.
func (c *Client) ResetPassword(ctx context.Context, userID string) (string, error) {
	resp, err := Post[Response[struct {
		ResetLink string `json:"reset_link"`
	}]](ctx, c, PathUsers+"/"+esc(userID)+"/reset-password", nil)
	return resp.Data.ResetLink, err
}

// ---- system config ----

// NodeTestRequest names a chain to probe.
type NodeTestRequest struct {
	Chain string `json:"chain" validate:"required,oneof=BTC ETH TRON BEP20 BSC POLYGON"`
}

// NodeTestResult is the probe outcome.
type NodeTestResult struct {
	Online  bool    `json:"online"`
	Latency float64 `json:"latency"`
}

// MaintenanceRequest schedules a maintenance window.
type MaintenanceRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

// TestBlockchainNode probes the RPC node of a chain.
func (c *Client) TestBlockchainNode(ctx context.Context, req NodeTestRequest) (NodeTestResult, error) {
	if err := check(req); err != nil {
		return NodeTestResult{}, err
	}
	resp, err := Post[Response[NodeTestResult]](ctx, c, "/admin/config/blockchain/"+esc(req.Chain)+"/test", nil)
	return resp.Data, err
}

// DeleteWebhook removes a global webhook.
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	_, err := Delete[Response[Ack]](ctx, c, PathWebhooks+"/"+esc(webhookID))
	return err
}

// EnableMaintenance schedules maintenance mode.
func (c *Client) EnableMaintenance(ctx context.Context, req MaintenanceRequest) error {
	return c.action(ctx, "/admin/config/maintenance/enable", req)
}

// DisableMaintenance ends maintenance mode.
func (c *Client) DisableMaintenance(ctx context.Context) error {
	return c.action(ctx, "/admin/config/maintenance/disable", nil)
}

// action validates body (when present) and POSTs it, discarding the ack.
func (c *Client) action(ctx context.Context, path string, body any) error {
	if body != nil {
		if err := check(body); err != nil {
			return err
		}
	}
	_, err := Post[Response[Ack]](ctx, c, path, body)
	return err
}
