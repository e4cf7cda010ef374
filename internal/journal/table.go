package journal

import (
	"coinfixi/internal/admin"
	"coinfixi/internal/table"
)

// Field keys a journal entry rendered as a table record.
type Field string

const (
	FieldID         Field = "id"
	FieldAction     Field = "action"
	FieldResource   Field = "resource"
	FieldResourceID Field = "resource_id"
	FieldNote       Field = "note"
	FieldOperator   Field = "operator"
	FieldSuccess    Field = "success"
	FieldError      Field = "error"
	FieldCreatedAt  Field = "created_at"
)

// Columns is the journal listing.
var Columns = []table.Column[Field]{
	{Key: FieldCreatedAt, Label: "When", Sortable: true, Width: 17, Render: admin.DateTime[Field]},
	{Key: FieldAction, Label: "Action", Sortable: true, Width: 18},
	{Key: FieldResource, Label: "Resource", Sortable: true, Width: 12},
	{Key: FieldResourceID, Label: "ID", Sortable: true, Width: 14, Render: admin.Truncate[Field](12)},
	{Key: FieldOperator, Label: "Operator", Sortable: true, Width: 20},
	{Key: FieldSuccess, Label: "Result", Sortable: true, Width: 7, Render: admin.Flag[Field]("ok", "failed")},
	{Key: FieldError, Label: "Error", Width: 30, Render: admin.Truncate[Field](30)},
}

// Records converts entries for the record table.
func Records(entries []Entry) []table.Record[Field] {
	out := make([]table.Record[Field], len(entries))
	for i, e := range entries {
		out[i] = table.Record[Field]{
			FieldID:         e.ID,
			FieldAction:     e.Action,
			FieldResource:   e.Resource,
			FieldResourceID: e.ResourceID,
			FieldNote:       e.Note,
			FieldOperator:   e.Operator,
			FieldSuccess:    e.Success,
			FieldError:      e.Error,
			FieldCreatedAt:  e.CreatedAt,
		}
	}
	return out
}

// NewView returns a searchable view over journal records.
func NewView() (*table.View[Field], error) {
	return table.NewView(Columns, table.Options{
		Searchable:   true,
		EmptyMessage: "No actions recorded",
	})
}
