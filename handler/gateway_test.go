package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event_hub/helper"
	"event_hub/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyWebhook(t *testing.T) {
	gw := NewGateway(model.GatewayConfig{WebhookSecret: "whsec_test"})
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_1","payment_intent":"pi_1"}}}`)

	header := SignWebhookPayload("whsec_test", time.Now(), payload)
	event, err := gw.VerifyWebhook(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "checkout.session.completed", event.Type)
	assert.Equal(t, "cs_1", event.Data.Object.ID)
	assert.Equal(t, "pi_1", event.Data.Object.PaymentIntent)
}

func TestVerifyWebhookRejectsTamperedPayload(t *testing.T) {
	gw := NewGateway(model.GatewayConfig{WebhookSecret: "whsec_test"})
	payload := []byte(`{"type":"checkout.session.completed"}`)
	header := SignWebhookPayload("whsec_test", time.Now(), payload)

	_, err := gw.VerifyWebhook([]byte(`{"type":"checkout.session.expired"}`), header)
	assert.ErrorIs(t, err, helper.ErrSignatureInvalid)
}

func TestVerifyWebhookRejectsWrongSecret(t *testing.T) {
	gw := NewGateway(model.GatewayConfig{WebhookSecret: "whsec_test"})
	payload := []byte(`{"type":"checkout.session.completed"}`)
	header := SignWebhookPayload("whsec_other", time.Now(), payload)

	_, err := gw.VerifyWebhook(payload, header)
	assert.ErrorIs(t, err, helper.ErrSignatureInvalid)
}

func TestVerifyWebhookRejectsStaleTimestamp(t *testing.T) {
	gw := NewGateway(model.GatewayConfig{WebhookSecret: "whsec_test"})
	payload := []byte(`{"type":"checkout.session.completed"}`)
	header := SignWebhookPayload("whsec_test", time.Now().Add(-10*time.Minute), payload)

	_, err := gw.VerifyWebhook(payload, header)
	assert.ErrorIs(t, err, helper.ErrSignatureInvalid)
}

func TestVerifyWebhookRejectsMalformedHeader(t *testing.T) {
	gw := NewGateway(model.GatewayConfig{WebhookSecret: "whsec_test"})
	payload := []byte(`{}`)

	for _, header := range []string{"", "t=abc,v1=def", "v1=deadbeef", "garbage"} {
		_, err := gw.VerifyWebhook(payload, header)
		assert.ErrorIs(t, err, helper.ErrSignatureInvalid, "header %q", header)
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotAuth, gotIdempotency string
	var gotForm map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotIdempotency = r.Header.Get("Idempotency-Key")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_live_1","url":"https://pay.example.com/cs_live_1"}`))
	}))
	defer srv.Close()

	gw := NewGateway(model.GatewayConfig{SecretKey: "sk_test", BaseURL: srv.URL})

	session, err := gw.CreateCheckoutSession(context.Background(), model.CheckoutParams{
		Amount:      4000,
		Quantity:    2,
		ProductName: "Summer Festival",
		SuccessURL:  "https://front/success",
		CancelURL:   "https://front/cancel",
		Metadata:    map[string]string{"event_id": "7"},
		ExpiresAt:   time.Now().Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_live_1", session.ID)
	assert.Equal(t, "https://pay.example.com/cs_live_1", session.URL)

	assert.Equal(t, "Bearer sk_test", gotAuth)
	assert.NotEmpty(t, gotIdempotency)
	assert.Equal(t, "2000", gotForm["line_items[0][price_data][unit_amount]"][0])
	assert.Equal(t, "2", gotForm["line_items[0][quantity]"][0])
	assert.Equal(t, "7", gotForm["metadata[event_id]"][0])
}

func TestCreateRefund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/refunds", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "pi_9", r.PostForm.Get("payment_intent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"re_live_1"}`))
	}))
	defer srv.Close()

	gw := NewGateway(model.GatewayConfig{SecretKey: "sk_test", BaseURL: srv.URL})

	refund, err := gw.CreateRefund(context.Background(), "pi_9")
	require.NoError(t, err)
	assert.Equal(t, "re_live_1", refund.ID)
}

func TestGatewayErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"card_declined"}`))
	}))
	defer srv.Close()

	gw := NewGateway(model.GatewayConfig{SecretKey: "sk_test", BaseURL: srv.URL})

	_, err := gw.CreateRefund(context.Background(), "pi_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
}
