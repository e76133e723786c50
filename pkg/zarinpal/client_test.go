package zarinpal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/amirdashti/darchin-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresMerchantID(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
}

func TestRequestPaymentReturnsAuthority(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, requestPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(map[string]any{"Status": 100, "Authority": "A00000123"})
	}))
	defer server.Close()

	client, err := NewClient("merchant-1", WithBaseURL(server.URL))
	require.NoError(t, err)

	authority, err := client.RequestPayment(context.Background(), PaymentRequest{
		Amount:      2300000,
		CallbackURL: "http://localhost:5000/api/v1/payment/verify/abc",
		Description: "order payment",
	})
	require.NoError(t, err)
	assert.Equal(t, "A00000123", authority)
	assert.Equal(t, "merchant-1", captured["MerchantID"])
	assert.EqualValues(t, 2300000, captured["Amount"])
}

func TestRequestPaymentRejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"Status": -11, "Authority": ""})
	}))
	defer server.Close()

	client, err := NewClient("merchant-1", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.RequestPayment(context.Background(), PaymentRequest{Amount: 1000, CallbackURL: "http://cb"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestVerifyPaymentDeclinedIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, verifyPath, r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"Status": -21, "RefID": 0})
	}))
	defer server.Close()

	client, err := NewClient("merchant-1", WithBaseURL(server.URL))
	require.NoError(t, err)

	result, err := client.VerifyPayment(context.Background(), "A00000123", 2300000)
	require.NoError(t, err)
	assert.False(t, result.Verified())
}

func TestVerifyPaymentSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"Status": 100, "RefID": 987654321})
	}))
	defer server.Close()

	client, err := NewClient("merchant-1", WithBaseURL(server.URL))
	require.NoError(t, err)

	result, err := client.VerifyPayment(context.Background(), "A00000123", 2300000)
	require.NoError(t, err)
	assert.True(t, result.Verified())
	assert.EqualValues(t, 987654321, result.RefID)
}

func TestStartPayURL(t *testing.T) {
	client, err := NewClient("merchant-1", WithBaseURL("https://gateway.test"))
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.test/pg/StartPay/A1", client.StartPayURL("A1"))
}
