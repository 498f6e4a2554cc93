package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"betbingo-backend/internal/config"
)

// OrderStatusCompleted is the only capture status that authorizes a
// wallet credit; anything else is surfaced to the caller, not retried.
const OrderStatusCompleted = "COMPLETED"

// PaymentService talks to the PayPal-style orders API. It only creates
// and captures orders; crediting the wallet is the caller's decision.
type PaymentService struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
}

type PaymentCapture struct {
	OrderID string          `json:"order_id"`
	Status  string          `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
	PayerID string          `json:"payer_id"`
}

func NewPaymentService(cfg *config.Config) *PaymentService {
	return &PaymentService{
		baseURL:    cfg.PayPalBaseURL,
		clientID:   cfg.PayPalClientID,
		secret:     cfg.PayPalSecret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *PaymentService) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("order amount must be positive, got %s", amount)
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"amount": map[string]string{
				"currency_code": currency,
				"value":         amount.StringFixed(2),
			},
			"description": "Add funds to BetBingoCash account",
		}},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v2/checkout/orders", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(p.clientID, p.secret)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("create order failed: status %d: %s", resp.StatusCode, raw)
	}

	var order struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("failed to decode order response: %v", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("create order returned no order ID")
	}
	return order.ID, nil
}

func (p *PaymentService) CaptureOrder(ctx context.Context, orderID string) (*PaymentCapture, error) {
	url := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", p.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(p.clientID, p.secret)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("capture order failed: status %d: %s", resp.StatusCode, raw)
	}

	var captured struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Payer  struct {
			PayerID string `json:"payer_id"`
		} `json:"payer"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					Amount struct {
						Value string `json:"value"`
					} `json:"amount"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&captured); err != nil {
		return nil, fmt.Errorf("failed to decode capture response: %v", err)
	}

	capture := &PaymentCapture{
		OrderID: captured.ID,
		Status:  captured.Status,
		PayerID: captured.Payer.PayerID,
	}

	if len(captured.PurchaseUnits) > 0 && len(captured.PurchaseUnits[0].Payments.Captures) > 0 {
		amount, err := decimal.NewFromString(captured.PurchaseUnits[0].Payments.Captures[0].Amount.Value)
		if err != nil {
			return nil, fmt.Errorf("malformed capture amount: %v", err)
		}
		capture.Amount = amount
	}

	return capture, nil
}
