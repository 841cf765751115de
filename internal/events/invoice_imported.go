package events

import "time"

// InvoiceImportedTopic is published by route-file ingestion once every
// quantity row of an invoice has been loaded.
const InvoiceImportedTopic = "billing.invoice.imported.v1"

type InvoiceImportedEvent struct {
	EventType     string    `json:"event_type"`
	InvoiceNumber string    `json:"invoice_number"`
	ImportedBy    string    `json:"imported_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}
