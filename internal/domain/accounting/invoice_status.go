package accounting

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the derived lifecycle state of a provider invoice.
// The provider does not store this as an enum; it is computed from the
// remote status string, the paid amount and the due date.
type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusSent          InvoiceStatus = "sent"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
	InvoiceStatusCancelled     InvoiceStatus = "cancelled"
)

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// DeriveInvoiceStatus computes the invoice status from remote state.
// Precedence: cancelled short-circuits everything; then paid when
// paidAmount >= totalAmount; then partially_paid when 0 < paid < total;
// then overdue when past the due date; otherwise sent. A remote "Draft"
// status with no payments maps to draft.
func DeriveInvoiceStatus(remoteStatus string, totalAmount, paidAmount decimal.Decimal, dueDate *time.Time, now time.Time) InvoiceStatus {
	switch strings.ToLower(remoteStatus) {
	case "cancelled", "canceled", "voided":
		return InvoiceStatusCancelled
	}

	if paidAmount.GreaterThanOrEqual(totalAmount) && totalAmount.IsPositive() {
		return InvoiceStatusPaid
	}
	if paidAmount.IsPositive() && paidAmount.LessThan(totalAmount) {
		return InvoiceStatusPartiallyPaid
	}
	if dueDate != nil && dueDate.Before(now) {
		return InvoiceStatusOverdue
	}
	if strings.EqualFold(remoteStatus, "draft") {
		return InvoiceStatusDraft
	}
	return InvoiceStatusSent
}
