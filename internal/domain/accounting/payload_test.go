package accounting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload_RoundTripsByJobType(t *testing.T) {
	companyID := uuid.New()
	contractID := uuid.New()

	orderRaw, err := EncodePayload(&CreateOrderPayload{ContractID: contractID})
	require.NoError(t, err)
	orderJob := NewSyncJob(companyID, JobTypeCreateOrder, LinkEntityOrder, contractID, orderRaw)

	decoded, err := DecodePayload(orderJob)
	require.NoError(t, err)
	orderPayload, ok := decoded.(*CreateOrderPayload)
	require.True(t, ok)
	assert.Equal(t, contractID, orderPayload.ContractID)

	invoiceRaw, err := EncodePayload(&CreateInvoicePayload{ContractID: contractID, OrderID: "po-98765"})
	require.NoError(t, err)
	invoiceJob := NewSyncJob(companyID, JobTypeCreateInvoice, LinkEntityInvoice, contractID, invoiceRaw)

	decoded, err = DecodePayload(invoiceJob)
	require.NoError(t, err)
	invoicePayload, ok := decoded.(*CreateInvoicePayload)
	require.True(t, ok)
	assert.Equal(t, "po-98765", invoicePayload.OrderID)
}

func TestDecodePayload_RejectsUnknownJobType(t *testing.T) {
	job := NewSyncJob(uuid.New(), JobType("reconcile"), LinkEntityOrder, uuid.New(), []byte(`{}`))

	_, err := DecodePayload(job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job type")
}

func TestDecodePayload_RejectsMalformedPayload(t *testing.T) {
	job := NewSyncJob(uuid.New(), JobTypeCreateOrder, LinkEntityOrder, uuid.New(), []byte(`{not json`))

	_, err := DecodePayload(job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid create_order payload")
}
