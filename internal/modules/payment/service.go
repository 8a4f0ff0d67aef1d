// README: Payment gateway glue: order correlation and signature verification.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

var (
	ErrVerificationFailed = errors.New("payment verification failed")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// GatewayOrder is the gateway-assigned record the client pays against.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units, per gateway convention
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// Gateway creates payment orders out of band. The order subsystem never
// re-implements payment logic; it only consumes the correlation id.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (GatewayOrder, error)
}

type Service struct {
	gateway Gateway
	key     string
	secret  string
}

func NewService(gateway Gateway, key, secret string) *Service {
	return &Service{gateway: gateway, key: key, secret: secret}
}

// CreateGatewayOrder registers the amount with the gateway and returns
// the id the client widget needs.
func (s *Service) CreateGatewayOrder(ctx context.Context, amountMinor int64, currency, receipt string) (GatewayOrder, error) {
	if s.gateway == nil {
		return GatewayOrder{}, ErrGatewayUnavailable
	}
	o, err := s.gateway.CreateOrder(ctx, amountMinor, currency, receipt)
	if err != nil {
		return GatewayOrder{}, err
	}
	o.Key = s.key
	return o, nil
}

// VerifySignature checks the gateway callback: HMAC-SHA256 over
// "<gatewayOrderID>|<paymentID>" keyed with the gateway secret,
// hex-encoded, compared in constant time.
func (s *Service) VerifySignature(gatewayOrderID, paymentID, signature string) error {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrVerificationFailed
	}
	return nil
}
