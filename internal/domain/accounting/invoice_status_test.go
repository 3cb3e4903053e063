package accounting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveInvoiceStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	pastDue := now.Add(-48 * time.Hour)
	futureDue := now.Add(14 * 24 * time.Hour)
	total := decimal.NewFromInt(289000)

	tests := []struct {
		name         string
		remoteStatus string
		total        decimal.Decimal
		paid         decimal.Decimal
		dueDate      *time.Time
		expected     InvoiceStatus
	}{
		{"unpaid before due date is sent", "Sent", total, decimal.Zero, &futureDue, InvoiceStatusSent},
		{"unpaid without due date is sent", "Sent", total, decimal.Zero, nil, InvoiceStatusSent},
		{"fully paid", "Sent", total, total, &futureDue, InvoiceStatusPaid},
		{"overpaid counts as paid", "Sent", total, total.Add(decimal.NewFromInt(100)), &pastDue, InvoiceStatusPaid},
		{"partial payment", "Sent", total, decimal.NewFromInt(50000), &futureDue, InvoiceStatusPartiallyPaid},
		{"partial payment beats overdue", "Sent", total, decimal.NewFromInt(50000), &pastDue, InvoiceStatusPartiallyPaid},
		{"unpaid past due date is overdue", "Sent", total, decimal.Zero, &pastDue, InvoiceStatusOverdue},
		{"cancelled beats everything", "Cancelled", total, total, &pastDue, InvoiceStatusCancelled},
		{"american spelling", "canceled", total, decimal.Zero, nil, InvoiceStatusCancelled},
		{"voided maps to cancelled", "Voided", total, decimal.Zero, nil, InvoiceStatusCancelled},
		{"remote draft with no payments", "Draft", total, decimal.Zero, nil, InvoiceStatusDraft},
		{"draft past due is overdue", "Draft", total, decimal.Zero, &pastDue, InvoiceStatusOverdue},
		{"zero total never reports paid", "Sent", decimal.Zero, decimal.Zero, nil, InvoiceStatusSent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DeriveInvoiceStatus(tt.remoteStatus, tt.total, tt.paid, tt.dueDate, now)
			assert.Equal(t, tt.expected, result)
		})
	}
}
