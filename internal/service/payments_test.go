package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentURLSignsSortedQuery(t *testing.T) {
	g := &RedirectGateway{
		BaseURL:      "https://pay.example.com/gateway",
		MerchantCode: "TICKETGO",
		HashSecret:   "topsecret",
		ReturnURL:    "https://ticketgo.example.com/v1/payment/callback",
		now:          func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) },
	}

	got, err := g.PaymentURL(context.Background(), PaymentRequest{
		AmountCents: 45000,
		Description: "Ticket payment",
		PayerName:   "Nguyen Van A",
		OrderRef:    "20240601100000",
	})
	require.NoError(t, err)

	base, rest, found := strings.Cut(got, "?")
	require.True(t, found)
	assert.Equal(t, "https://pay.example.com/gateway", base)

	query, sig, found := strings.Cut(rest, "&signature=")
	require.True(t, found)

	parsed, err := url.ParseQuery(query)
	require.NoError(t, err)
	assert.Equal(t, "45000", parsed.Get("amount"))
	assert.Equal(t, "TICKETGO", parsed.Get("merchant"))
	assert.Equal(t, "20240601100000", parsed.Get("created"))
	assert.Equal(t, g.ReturnURL, parsed.Get("return_url"))

	mac := hmac.New(sha512.New, []byte("topsecret"))
	mac.Write([]byte(query))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), sig)
}

func TestPaymentURLUnconfigured(t *testing.T) {
	g := &RedirectGateway{now: time.Now}

	_, err := g.PaymentURL(context.Background(), PaymentRequest{AmountCents: 100})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}
