package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultGatewayBaseURL = "https://api.razorpay.com/v1"

// RestGateway talks to the hosted payment provider's REST API with
// basic auth (key id / key secret).
type RestGateway struct {
	baseURL string
	key     string
	secret  string
	client  *http.Client
}

func NewRestGateway(baseURL, key, secret string) *RestGateway {
	if baseURL == "" {
		baseURL = defaultGatewayBaseURL
	}
	return &RestGateway{
		baseURL: baseURL,
		key:     key,
		secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func (g *RestGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (GatewayOrder, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return GatewayOrder{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return GatewayOrder{}, err
	}
	req.SetBasicAuth(g.key, g.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return GatewayOrder{}, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return GatewayOrder{}, fmt.Errorf("%w: status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var out GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return GatewayOrder{}, err
	}
	return out, nil
}
