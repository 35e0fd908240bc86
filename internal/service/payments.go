package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/url"
	"os"
	"strconv"
	"time"
)

// ErrGatewayUnavailable is returned when the payment gateway is not
// configured or cannot produce a redirect URL.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// PaymentRequest carries what the gateway needs to render a payment
// page: the amount, a description, the payer's name and an order
// reference number.
type PaymentRequest struct {
	AmountCents uint32
	Description string
	PayerName   string
	OrderRef    string
}

// PaymentGateway produces the redirect URL a customer is sent to
// after staging a booking. The gateway's own protocol (signature
// verification on return, IPN handling) is the collaborator's
// responsibility; this engine only consumes the redirect leg and the
// bare fact that the callback was reached.
type PaymentGateway interface {
	PaymentURL(ctx context.Context, req PaymentRequest) (string, error)
}

// RedirectGateway builds VNPay-style signed redirect URLs from
// environment configuration.
type RedirectGateway struct {
	BaseURL      string
	MerchantCode string
	HashSecret   string
	ReturnURL    string

	now func() time.Time
}

// NewRedirectGateway reads PAYMENT_URL, PAYMENT_MERCHANT,
// PAYMENT_SECRET and PAYMENT_RETURN_URL. Missing configuration is not
// fatal at startup; PaymentURL reports ErrGatewayUnavailable instead
// so the rest of the service keeps working.
func NewRedirectGateway() *RedirectGateway {
	return &RedirectGateway{
		BaseURL:      os.Getenv("PAYMENT_URL"),
		MerchantCode: os.Getenv("PAYMENT_MERCHANT"),
		HashSecret:   os.Getenv("PAYMENT_SECRET"),
		ReturnURL:    os.Getenv("PAYMENT_RETURN_URL"),
		now:          time.Now,
	}
}

// PaymentURL assembles the redirect URL: sorted query parameters plus
// an HMAC-SHA512 signature over the encoded query.
func (g *RedirectGateway) PaymentURL(ctx context.Context, req PaymentRequest) (string, error) {
	if g.BaseURL == "" {
		return "", ErrGatewayUnavailable
	}
	params := url.Values{}
	params.Set("merchant", g.MerchantCode)
	params.Set("amount", strconv.FormatUint(uint64(req.AmountCents), 10))
	params.Set("created", g.now().UTC().Format("20060102150405"))
	params.Set("description", req.Description)
	params.Set("payer", req.PayerName)
	params.Set("order_ref", req.OrderRef)
	params.Set("return_url", g.ReturnURL)

	query := params.Encode() // url.Values.Encode sorts keys
	mac := hmac.New(sha512.New, []byte(g.HashSecret))
	mac.Write([]byte(query))
	signature := hex.EncodeToString(mac.Sum(nil))
	return g.BaseURL + "?" + query + "&signature=" + signature, nil
}
