package poweroffice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dealerdesk/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, handler http.Handler) (*Adapter, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	adapter, err := NewAdapter(&Config{
		APIBaseURL:     server.URL,
		AuthBaseURL:    server.URL + "/oauth",
		ClientID:       "client-id",
		ClientSecret:   "client-secret",
		RedirectURL:    "https://app.example.com/callback",
		Scope:          "accounting.full",
		TimeoutSeconds: 5,
	})
	require.NoError(t, err)
	return adapter, server
}

func TestAdapter_AuthorizeURL(t *testing.T) {
	adapter, _ := newTestAdapter(t, http.NotFoundHandler())

	authURL := adapter.AuthorizeURL("state-abc")
	assert.Contains(t, authURL, "/oauth/authorize?")
	assert.Contains(t, authURL, "client_id=client-id")
	assert.Contains(t, authURL, "state=state-abc")
	assert.Contains(t, authURL, "response_type=code")
}

func TestAdapter_ExchangeCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostFormValue("grant_type"))
		assert.Equal(t, "auth-code", r.PostFormValue("code"))

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)

		json.NewEncoder(w).Encode(tokenResponse{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			ExpiresIn:    3600,
		})
	})
	adapter, _ := newTestAdapter(t, mux)

	tokens, err := adapter.ExchangeCode(context.Background(), "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "access-token", tokens.AccessToken)
	assert.Equal(t, "refresh-token", tokens.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tokens.ExpiresAt, time.Minute)
}

func TestAdapter_ExchangeCode_FailureWrapsDomainError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	})
	adapter, _ := newTestAdapter(t, mux)

	_, err := adapter.ExchangeCode(context.Background(), "bad-code")
	assert.ErrorIs(t, err, accounting.ErrOAuthExchangeFailed)
}

func TestAdapter_RefreshAccessToken_FailureWrapsDomainError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired", http.StatusUnauthorized)
	})
	adapter, _ := newTestAdapter(t, mux)

	_, err := adapter.RefreshAccessToken(context.Background(), "stale-refresh")
	assert.ErrorIs(t, err, accounting.ErrOAuthRefreshFailed)
}

func TestAdapter_EmptyTokenFailsBeforeNetwork(t *testing.T) {
	called := false
	adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := adapter.GetVATCodes(context.Background(), "")
	assert.ErrorIs(t, err, accounting.ErrNoAccessToken)
	assert.False(t, called, "no request may leave the adapter without a token")
}

func TestAdapter_APIErrorPreservesStatusAndBody(t *testing.T) {
	adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ledger is closed for this period", http.StatusUnprocessableEntity)
	}))

	_, err := adapter.GetAccounts(context.Background(), "token")
	var apiErr *accounting.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "ledger is closed")
}

func TestAdapter_ValidateConnection(t *testing.T) {
	t.Run("accepted token", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(customerListResponse{})
		}))

		ok, err := adapter.ValidateConnection(context.Background(), "good-token")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejected token is not an error", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		ok, err := adapter.ValidateConnection(context.Background(), "bad-token")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestAdapter_UpsertCustomer(t *testing.T) {
	t.Run("creates when search finds nothing", func(t *testing.T) {
		var method, path string
		mux := http.NewServeMux()
		mux.HandleFunc("/customers", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				json.NewEncoder(w).Encode(customerListResponse{})
				return
			}
			method, path = r.Method, r.URL.Path
			var payload customerPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Kari Nordmann", payload.Name)
			json.NewEncoder(w).Encode(customerResponse{ID: 42, Name: payload.Name})
		})
		adapter, _ := newTestAdapter(t, mux)

		remote, err := adapter.UpsertCustomer(context.Background(), "token", accounting.CustomerData{
			Name:  "Kari Nordmann",
			Email: "kari@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "42", remote.ID)
		assert.Equal(t, http.MethodPost, method)
		assert.Equal(t, "/customers", path)
	})

	t.Run("updates when search finds a match", func(t *testing.T) {
		var updatedPath string
		mux := http.NewServeMux()
		mux.HandleFunc("/customers", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "987654321", r.URL.Query().Get("organizationNumber"))
			json.NewEncoder(w).Encode(customerListResponse{Values: []customerResponse{{ID: 7, Name: "Gamle AS"}}})
		})
		mux.HandleFunc("/customers/7", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			updatedPath = r.URL.Path
			json.NewEncoder(w).Encode(customerResponse{ID: 7, Name: "Nye AS"})
		})
		adapter, _ := newTestAdapter(t, mux)

		remote, err := adapter.UpsertCustomer(context.Background(), "token", accounting.CustomerData{
			Name:               "Nye AS",
			OrganizationNumber: "987654321",
		})
		require.NoError(t, err)
		assert.Equal(t, "7", remote.ID)
		assert.Equal(t, "/customers/7", updatedPath)
	})
}

func TestAdapter_CreateOrder_SendsIdempotencyKey(t *testing.T) {
	contractID := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, contractID.String(), r.Header.Get("Idempotency-Key"))

		var payload orderPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "cust-1", payload.CustomerID)
		require.Len(t, payload.Lines, 2)
		assert.Equal(t, "25", payload.Lines[0].VatCode)
		assert.Equal(t, "3000", payload.Lines[0].GeneralLedgerAccountCode)
		assert.True(t, payload.Lines[1].UnitPrice.IsNegative(), "trade-in line must be negative")

		json.NewEncoder(w).Encode(orderResponse{ID: 555, URL: "https://go.poweroffice.net/orders/555"})
	})
	adapter, _ := newTestAdapter(t, mux)

	draft := &accounting.OrderDraft{
		ContractID:       contractID,
		CustomerRemoteID: "cust-1",
		Reference:        "K-2026-001",
		CurrencyCode:     "NOK",
		Lines: []accounting.OrderLine{
			{Description: "Volkswagen Golf 2021", Category: accounting.CategoryCar, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(289000), VATCode: "25", AccountCode: "3000"},
			{Description: "Innbytte: Ford Focus 2015", Category: accounting.CategoryCar, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(-55000), VATCode: "25", AccountCode: "3000"},
		},
	}

	remote, err := adapter.CreateOrder(context.Background(), "token", draft)
	require.NoError(t, err)
	assert.Equal(t, "555", remote.ID)
	assert.Equal(t, "https://go.poweroffice.net/orders/555", remote.URL)
}

func TestAdapter_GetInvoice(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/invoices/99", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(invoiceResponse{
			ID:          99,
			Status:      "Sent",
			TotalAmount: decimal.NewFromInt(301000),
			PaidAmount:  decimal.NewFromInt(100000),
			DueDate:     &due,
		})
	})
	adapter, _ := newTestAdapter(t, mux)

	invoice, err := adapter.GetInvoice(context.Background(), "token", "99")
	require.NoError(t, err)
	assert.Equal(t, "99", invoice.ID)
	assert.True(t, invoice.PaidAmount.Equal(decimal.NewFromInt(100000)))

	status := accounting.DeriveInvoiceStatus(invoice.Status, invoice.TotalAmount, invoice.PaidAmount, invoice.DueDate, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, accounting.InvoiceStatusPartiallyPaid, status)
}

func TestAdapter_ListPayments_SinceFilter(t *testing.T) {
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/payments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, since.Format(time.RFC3339), r.URL.Query().Get("since"))
		json.NewEncoder(w).Encode(paymentListResponse{Values: []paymentResponse{
			{ID: 1, InvoiceID: 99, Amount: decimal.NewFromInt(100000), PaidAt: since.Add(24 * time.Hour)},
		}})
	})
	adapter, _ := newTestAdapter(t, mux)

	payments, err := adapter.ListPayments(context.Background(), "token", &since)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "99", payments[0].InvoiceID)
}
