package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"event_hub/helper"
	"event_hub/model"

	"github.com/google/uuid"
)

// WebhookTolerance is how stale a webhook timestamp may be before the
// signature is rejected as a possible replay.
const WebhookTolerance = 5 * time.Minute

// Gateway is the HTTP client for the payment provider's checkout API.
// Requests are form-encoded with a bearer key; every mutating call
// carries an idempotency key so retries are safe.
type Gateway struct {
	cfg    model.GatewayConfig
	client *http.Client
}

func NewGateway(cfg model.GatewayConfig) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *Gateway) post(ctx context.Context, path string, form url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(g.cfg.BaseURL, "/")+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway %s returned %d: %s", path, resp.StatusCode, body)
	}
	return json.Unmarshal(body, out)
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, params model.CheckoutParams) (*model.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.Amount/params.Quantity, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][price_data][product_data][description]", params.Description)
	form.Set("line_items[0][quantity]", strconv.FormatInt(params.Quantity, 10))
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("expires_at", strconv.FormatInt(params.ExpiresAt.Unix(), 10))
	for k, v := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var session model.CheckoutSession
	if err := g.post(ctx, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (g *Gateway) CreateRefund(ctx context.Context, paymentIntentId string) (*model.Refund, error) {
	form := url.Values{}
	form.Set("payment_intent", paymentIntentId)

	var refund model.Refund
	if err := g.post(ctx, "/v1/refunds", form, &refund); err != nil {
		return nil, err
	}
	return &refund, nil
}

// VerifyWebhook checks the signature header against the raw payload and
// decodes the event. The header carries a unix timestamp and one or
// more v1 signatures: HMAC-SHA256 of "<t>.<payload>" with the webhook
// secret. Comparison is constant time and the timestamp must be fresh.
func (g *Gateway) VerifyWebhook(payload []byte, sigHeader string) (*model.WebhookEvent, error) {
	timestamp, signatures := parseSignatureHeader(sigHeader)
	if timestamp == 0 || len(signatures) == 0 {
		return nil, helper.ErrSignatureInvalid
	}

	if d := time.Since(time.Unix(timestamp, 0)); d > WebhookTolerance || d < -WebhookTolerance {
		return nil, helper.ErrSignatureInvalid
	}

	mac := hmac.New(sha256.New, []byte(g.cfg.WebhookSecret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	valid := false
	for _, sig := range signatures {
		decoded, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(decoded, expected) {
			valid = true
		}
	}
	if !valid {
		return nil, helper.ErrSignatureInvalid
	}

	var event model.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// SignWebhookPayload produces the signature header for a payload. Used
// by tests and local tooling to fabricate verifiable webhooks.
func SignWebhookPayload(secret string, timestamp time.Time, payload []byte) string {
	ts := strconv.FormatInt(timestamp.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func parseSignatureHeader(header string) (int64, []string) {
	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp, _ = strconv.ParseInt(kv[1], 10, 64)
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	return timestamp, signatures
}
