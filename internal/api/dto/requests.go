package dto

// ReconcileRequest is the body of POST /api/reconcile.
// Records are raw JSON objects keyed by their source labels.
type ReconcileRequest struct {
	Invoices      []map[string]any `json:"invoices" binding:"required"`
	Payments      []map[string]any `json:"payments" binding:"required"`
	Mode          string           `json:"mode"`
	SelectOverdue *bool            `json:"select_overdue"`
	SelectUnused  *bool            `json:"select_unused"`
}
