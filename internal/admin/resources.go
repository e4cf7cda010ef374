package admin

import (
	"coinfixi/internal/api"
	"coinfixi/internal/table"
)

// Field key types, one per resource.
type (
	ClientField      string
	TransactionField string
	AlertField       string
	ComplianceField  string
	CommissionField  string
	InvoiceField     string
	UserField        string
	ActivityField    string
	WebhookField     string
	APIStatusField   string
)

const (
	ClientID            ClientField = "id"
	ClientBusinessName  ClientField = "business_name"
	ClientEmail         ClientField = "email"
	ClientCountry       ClientField = "country"
	ClientMonthlyVolume ClientField = "monthly_volume"
	ClientAccountStatus ClientField = "account_status"
	ClientKYCStatus     ClientField = "kyc_status"
	ClientRiskLevel     ClientField = "risk_level"
	ClientFee           ClientField = "fee_percentage"
	ClientLastActivity  ClientField = "last_activity"
)

const (
	TxID         TransactionField = "id"
	TxClientName TransactionField = "client_name"
	TxType       TransactionField = "type"
	TxAmount     TransactionField = "amount"
	TxCurrency   TransactionField = "currency"
	TxStatus     TransactionField = "status"
	TxRiskScore  TransactionField = "risk_score"
	TxAMLFlags   TransactionField = "aml_flags"
	TxCreatedAt  TransactionField = "created_at"
)

const (
	AlertID           AlertField = "id"
	AlertClientName   AlertField = "client_name"
	AlertType         AlertField = "type"
	AlertSeverity     AlertField = "severity"
	AlertDescription  AlertField = "description"
	AlertTimestamp    AlertField = "timestamp"
	AlertAcknowledged AlertField = "acknowledged"
)

const (
	CheckID         ComplianceField = "id"
	CheckClientID   ComplianceField = "client_id"
	CheckClientName ComplianceField = "client_name"
	CheckKYCStatus  ComplianceField = "kyc_status"
	CheckAMLScore   ComplianceField = "aml_score"
	CheckRiskLevel  ComplianceField = "risk_level"
	CheckFlags      ComplianceField = "flags"
	CheckLastReview ComplianceField = "last_review"
	CheckReviewedBy ComplianceField = "reviewed_by"
)

const (
	CommissionClientID   CommissionField = "client_id"
	CommissionClientName CommissionField = "client_name"
	CommissionVolume     CommissionField = "volume"
	CommissionFee        CommissionField = "fee_percentage"
	CommissionPlatform   CommissionField = "platform_fees"
	CommissionStatus     CommissionField = "payment_status"
	CommissionPeriod     CommissionField = "period"
)

const (
	InvoiceID         InvoiceField = "id"
	InvoiceClientName InvoiceField = "client_name"
	InvoiceAmount     InvoiceField = "total_amount"
	InvoiceStatus     InvoiceField = "status"
	InvoiceDueDate    InvoiceField = "due_date"
)

const (
	UserID         UserField = "id"
	UserName       UserField = "name"
	UserEmail      UserField = "email"
	UserRole       UserField = "role"
	UserStatus     UserField = "status"
	UserTwoFactor  UserField = "two_factor_enabled"
	UserLastLogin  UserField = "last_login"
	UserLoginCount UserField = "login_count"
)

const (
	ActivityID        ActivityField = "id"
	ActivityUserName  ActivityField = "user_name"
	ActivityAction    ActivityField = "action"
	ActivityResource  ActivityField = "resource"
	ActivityTimestamp ActivityField = "timestamp"
	ActivityIP        ActivityField = "ip_address"
	ActivitySuccess   ActivityField = "success"
)

const (
	WebhookID            WebhookField = "id"
	WebhookName          WebhookField = "name"
	WebhookURL           WebhookField = "url"
	WebhookEvents        WebhookField = "events"
	WebhookStatus        WebhookField = "status"
	WebhookSuccessRate   WebhookField = "success_rate"
	WebhookLastTriggered WebhookField = "last_triggered"
	WebhookTriggers      WebhookField = "triggers_count"
)

const (
	APIEndpoint     APIStatusField = "endpoint"
	APIMethod       APIStatusField = "method"
	APIStatus       APIStatusField = "status"
	APIResponseAvg  APIStatusField = "response_time_avg"
	APIResponseP95  APIStatusField = "response_time_p95"
	APISuccessRate  APIStatusField = "success_rate"
	APIRequestsHour APIStatusField = "requests_last_hour"
	APIErrorsHour   APIStatusField = "errors_last_hour"
)

var riskTones = map[string]Tone{
	"low":      ToneSuccess,
	"medium":   ToneWarning,
	"high":     ToneError,
	"critical": ToneError,
}

// Clients lists merchant accounts.
var Clients = &Resource[ClientField]{
	Name:         "clients",
	Title:        "Clients",
	EmptyMessage: "No clients found",
	Searchable:   true,
	IDKey:        ClientID,
	Columns: []table.Column[ClientField]{
		{Key: ClientBusinessName, Label: "Business", Sortable: true, Width: 32, Render: WithSecondary(ClientEmail)},
		{Key: ClientCountry, Label: "Country", Sortable: true, Width: 10},
		{Key: ClientMonthlyVolume, Label: "Monthly Volume", Sortable: true, Width: 16, Render: Currency[ClientField]},
		{Key: ClientAccountStatus, Label: "Status", Sortable: true, Width: 10},
		{Key: ClientKYCStatus, Label: "KYC", Sortable: true, Width: 12, Render: Label[ClientField]},
		{Key: ClientRiskLevel, Label: "Risk", Sortable: true, Width: 9},
		{Key: ClientLastActivity, Label: "Last Activity", Sortable: true, Width: 12, Render: Date[ClientField]},
	},
	Tones: map[ClientField]ToneFunc{
		ClientAccountStatus: Variants(map[string]Tone{"active": ToneSuccess, "suspended": ToneError, "pending": ToneWarning}),
		ClientKYCStatus:     Variants(map[string]Tone{"verified": ToneSuccess, "pending": ToneWarning, "rejected": ToneError}),
		ClientRiskLevel:     Variants(riskTones),
	},
	Fetch: paged[ClientField](api.PathClients, nil),
}

// Transactions lists transactions across all clients.
var Transactions = &Resource[TransactionField]{
	Name:         "transactions",
	Title:        "Transactions",
	EmptyMessage: "No transactions found",
	Searchable:   true,
	IDKey:        TxID,
	Columns: []table.Column[TransactionField]{
		{Key: TxID, Label: "ID", Width: 12, Render: Truncate[TransactionField](8)},
		{Key: TxClientName, Label: "Client", Sortable: true, Width: 20},
		{Key: TxType, Label: "Type", Sortable: true, Width: 10, Render: Title[TransactionField]},
		{Key: TxAmount, Label: "Amount", Sortable: true, Width: 22, Render: Amount(TxCurrency)},
		{Key: TxStatus, Label: "Status", Sortable: true, Width: 11},
		{Key: TxRiskScore, Label: "Risk Score", Sortable: true, Width: 10},
		{Key: TxAMLFlags, Label: "AML Flags", Width: 9, Render: Count[TransactionField]},
		{Key: TxCreatedAt, Label: "Date", Sortable: true, Width: 17, Render: DateTime[TransactionField]},
	},
	Tones: map[TransactionField]ToneFunc{
		TxStatus:    Variants(map[string]Tone{"completed": ToneSuccess, "pending": ToneWarning, "failed": ToneError, "confirming": ToneInfo}),
		TxRiskScore: Threshold(40, 70),
	},
	Fetch: paged[TransactionField](api.PathTransactions, nil),
}

// Alerts lists transaction monitoring alerts.
var Alerts = &Resource[AlertField]{
	Name:         "alerts",
	Title:        "Alerts",
	EmptyMessage: "No active alerts",
	Searchable:   true,
	IDKey:        AlertID,
	Columns: []table.Column[AlertField]{
		{Key: AlertClientName, Label: "Client", Sortable: true, Width: 20},
		{Key: AlertType, Label: "Type", Sortable: true, Width: 22, Render: Label[AlertField]},
		{Key: AlertSeverity, Label: "Severity", Sortable: true, Width: 9},
		{Key: AlertDescription, Label: "Description", Width: 40, Render: Truncate[AlertField](40)},
		{Key: AlertTimestamp, Label: "Time", Sortable: true, Width: 17, Render: DateTime[AlertField]},
		{Key: AlertAcknowledged, Label: "Ack", Sortable: true, Width: 5, Render: Flag[AlertField]("yes", "no")},
	},
	Tones: map[AlertField]ToneFunc{
		AlertSeverity: Variants(riskTones),
	},
	Fetch: paged[AlertField](api.PathTransactionAlerts, nil),
}

// Compliance lists KYC/AML checks.
var Compliance = &Resource[ComplianceField]{
	Name:         "compliance",
	Title:        "Compliance",
	EmptyMessage: "No compliance checks found",
	Searchable:   true,
	IDKey:        CheckClientID,
	Columns: []table.Column[ComplianceField]{
		{Key: CheckClientName, Label: "Client", Sortable: true, Width: 20},
		{Key: CheckKYCStatus, Label: "KYC Status", Sortable: true, Width: 16, Render: Label[ComplianceField]},
		{Key: CheckAMLScore, Label: "AML Score", Sortable: true, Width: 9},
		{Key: CheckRiskLevel, Label: "Risk Level", Sortable: true, Width: 10},
		{Key: CheckFlags, Label: "Active Flags", Width: 12, Render: Count[ComplianceField]},
		{Key: CheckLastReview, Label: "Last Review", Sortable: true, Width: 12, Render: Date[ComplianceField]},
		{Key: CheckReviewedBy, Label: "Reviewer", Sortable: true, Width: 16},
	},
	Tones: map[ComplianceField]ToneFunc{
		CheckKYCStatus: Variants(map[string]Tone{"approved": ToneSuccess, "pending": ToneWarning, "rejected": ToneError, "requires_update": ToneInfo}),
		CheckAMLScore:  Threshold(40, 70),
		CheckRiskLevel: Variants(riskTones),
	},
	Fetch: paged[ComplianceField](api.PathComplianceChecks, nil),
}

// Commissions lists platform fee reports per client and period.
var Commissions = &Resource[CommissionField]{
	Name:         "commissions",
	Title:        "Commissions",
	EmptyMessage: "No commission data",
	Searchable:   true,
	IDKey:        CommissionClientID,
	Columns: []table.Column[CommissionField]{
		{Key: CommissionClientName, Label: "Client", Sortable: true, Width: 20},
		{Key: CommissionVolume, Label: "Volume", Sortable: true, Width: 16, Render: Currency[CommissionField]},
		{Key: CommissionFee, Label: "Fee %", Sortable: true, Width: 8, Render: Percent[CommissionField]},
		{Key: CommissionPlatform, Label: "Platform Fees", Sortable: true, Width: 14, Render: Currency[CommissionField]},
		{Key: CommissionStatus, Label: "Status", Sortable: true, Width: 9},
		{Key: CommissionPeriod, Label: "Period", Sortable: true, Width: 9},
	},
	Tones: map[CommissionField]ToneFunc{
		CommissionStatus: Variants(map[string]Tone{"paid": ToneSuccess, "pending": ToneWarning, "overdue": ToneError}),
	},
	Fetch: paged[CommissionField](api.PathCommissions, nil),
}

// Invoices lists client invoices.
var Invoices = &Resource[InvoiceField]{
	Name:         "invoices",
	Title:        "Invoices",
	EmptyMessage: "No invoices",
	Searchable:   true,
	IDKey:        InvoiceID,
	Columns: []table.Column[InvoiceField]{
		{Key: InvoiceID, Label: "Invoice #", Sortable: true, Width: 14},
		{Key: InvoiceClientName, Label: "Client", Sortable: true, Width: 20},
		{Key: InvoiceAmount, Label: "Amount", Sortable: true, Width: 14, Render: Currency[InvoiceField]},
		{Key: InvoiceStatus, Label: "Status", Sortable: true, Width: 10},
		{Key: InvoiceDueDate, Label: "Due Date", Sortable: true, Width: 12, Render: Date[InvoiceField]},
	},
	Tones: map[InvoiceField]ToneFunc{
		InvoiceStatus: Variants(map[string]Tone{"paid": ToneSuccess, "sent": ToneInfo, "draft": ToneDefault, "overdue": ToneError, "cancelled": ToneDefault}),
	},
	Fetch: paged[InvoiceField](api.PathInvoices, nil),
}

// Users lists admin users.
var Users = &Resource[UserField]{
	Name:         "users",
	Title:        "Admin Users",
	EmptyMessage: "No users found",
	Searchable:   true,
	IDKey:        UserID,
	Columns: []table.Column[UserField]{
		{Key: UserName, Label: "Name", Sortable: true, Width: 32, Render: WithSecondary(UserEmail)},
		{Key: UserRole, Label: "Role", Sortable: true, Width: 16, Render: Title[UserField]},
		{Key: UserStatus, Label: "Status", Sortable: true, Width: 10},
		{Key: UserTwoFactor, Label: "2FA", Sortable: true, Width: 9, Render: Flag[UserField]("enabled", "disabled")},
		{Key: UserLastLogin, Label: "Last Login", Sortable: true, Width: 17, Render: DateTime[UserField]},
		{Key: UserLoginCount, Label: "Logins", Sortable: true, Width: 7, Render: Integer[UserField]},
	},
	Tones: map[UserField]ToneFunc{
		UserStatus: Variants(map[string]Tone{"active": ToneSuccess, "suspended": ToneError, "inactive": ToneDefault}),
		UserTwoFactor: func(v any) Tone {
			if b, _ := v.(bool); b {
				return ToneSuccess
			}
			return ToneWarning
		},
	},
	Fetch: paged[UserField](api.PathUsers, nil),
}

// Activity lists admin activity logs.
var Activity = &Resource[ActivityField]{
	Name:         "activity",
	Title:        "Activity Logs",
	EmptyMessage: "No activity logs",
	Searchable:   true,
	IDKey:        ActivityID,
	Columns: []table.Column[ActivityField]{
		{Key: ActivityUserName, Label: "User", Sortable: true, Width: 18},
		{Key: ActivityAction, Label: "Action", Sortable: true, Width: 24},
		{Key: ActivityResource, Label: "Resource", Sortable: true, Width: 14, Render: Title[ActivityField]},
		{Key: ActivityTimestamp, Label: "Timestamp", Sortable: true, Width: 17, Render: DateTime[ActivityField]},
		{Key: ActivityIP, Label: "IP Address", Width: 15},
		{Key: ActivitySuccess, Label: "Status", Sortable: true, Width: 8, Render: Flag[ActivityField]("Success", "Failed")},
	},
	Tones: map[ActivityField]ToneFunc{
		ActivitySuccess: func(v any) Tone {
			if b, _ := v.(bool); b {
				return ToneSuccess
			}
			return ToneError
		},
	},
	Fetch: paged[ActivityField](api.PathActivityLogs, nil),
}

// Webhooks lists global webhooks.
var Webhooks = &Resource[WebhookField]{
	Name:         "webhooks",
	Title:        "Global Webhooks",
	EmptyMessage: "No webhooks configured",
	Searchable:   true,
	IDKey:        WebhookID,
	Columns: []table.Column[WebhookField]{
		{Key: WebhookName, Label: "Name", Sortable: true, Width: 18},
		{Key: WebhookURL, Label: "URL", Width: 32, Render: Truncate[WebhookField](32)},
		{Key: WebhookEvents, Label: "Events", Width: 7, Render: Count[WebhookField]},
		{Key: WebhookStatus, Label: "Status", Sortable: true, Width: 9},
		{Key: WebhookSuccessRate, Label: "Success", Sortable: true, Width: 8, Render: Percent[WebhookField]},
		{Key: WebhookTriggers, Label: "Triggers", Sortable: true, Width: 9, Render: Integer[WebhookField]},
		{Key: WebhookLastTriggered, Label: "Last Triggered", Sortable: true, Width: 17, Render: DateTime[WebhookField]},
	},
	Tones: map[WebhookField]ToneFunc{
		WebhookStatus: Variants(map[string]Tone{"active": ToneSuccess, "inactive": ToneDefault}),
	},
	Fetch: whole[WebhookField](api.PathWebhooks),
}

// APIStatuses lists backend endpoint health.
var APIStatuses = &Resource[APIStatusField]{
	Name:         "apistatus",
	Title:        "API Status",
	EmptyMessage: "No endpoints reported",
	Searchable:   true,
	IDKey:        APIEndpoint,
	Columns: []table.Column[APIStatusField]{
		{Key: APIEndpoint, Label: "Endpoint", Sortable: true, Width: 30},
		{Key: APIMethod, Label: "Method", Sortable: true, Width: 7},
		{Key: APIStatus, Label: "Status", Sortable: true, Width: 9},
		{Key: APIResponseAvg, Label: "Avg ms", Sortable: true, Width: 8},
		{Key: APIResponseP95, Label: "P95 ms", Sortable: true, Width: 8},
		{Key: APISuccessRate, Label: "Success", Sortable: true, Width: 8, Render: Percent[APIStatusField]},
		{Key: APIRequestsHour, Label: "Req/h", Sortable: true, Width: 8, Render: Integer[APIStatusField]},
		{Key: APIErrorsHour, Label: "Err/h", Sortable: true, Width: 7, Render: Integer[APIStatusField]},
	},
	Tones: map[APIStatusField]ToneFunc{
		APIStatus: Variants(map[string]Tone{"healthy": ToneSuccess, "degraded": ToneWarning, "down": ToneError}),
	},
	Fetch: whole[APIStatusField](api.PathAPIStatuses),
}

func init() {
	register(Clients)
	register(Transactions)
	register(Alerts)
	register(Compliance)
	register(Commissions)
	register(Invoices)
	register(Users)
	register(Activity)
	register(Webhooks)
	register(APIStatuses)
}
