// Package payment holds the refund policy and a simulated payment
// gateway.  Real gateway integration (Razorpay, Stripe, ...) is out of
// scope; the stubs mint well-formed references so the booking flow can
// exercise the full confirm/refund path.
package payment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Refund tier boundaries in hours before the booking start.  Lower
// bounds are inclusive: cancelling at exactly 24h still refunds 100%.
const (
	FullRefundHours    = 24
	HalfRefundHours    = 12
	QuarterRefundHours = 2
)

// CalculateRefund returns the refundable amount in cents for a
// cancellation happening hoursUntilStart hours before play begins:
//
//	>= 24h  100%
//	>= 12h   50%
//	>=  2h   25%
//	<   2h    0
//
// The under-2h tier is normally unreachable because the booking state
// machine blocks cancellation inside that window, but the policy is
// still defined for it.  The function is pure; the caller applies the
// result.
func CalculateRefund(totalCents uint32, hoursUntilStart float64) uint32 {
	switch {
	case hoursUntilStart >= FullRefundHours:
		return totalCents
	case hoursUntilStart >= HalfRefundHours:
		return totalCents / 2
	case hoursUntilStart >= QuarterRefundHours:
		return totalCents / 4
	default:
		return 0
	}
}

// Result describes the outcome of a simulated gateway call.
type Result struct {
	Success     bool      `json:"success"`
	PaymentID   string    `json:"paymentId"`
	AmountCents uint32    `json:"amountCents"`
	Method      string    `json:"method"`
	Timestamp   time.Time `json:"timestamp"`
}

// ProcessPayment simulates charging the given amount and always
// succeeds with a freshly minted payment reference.
func ProcessPayment(amountCents uint32, method string) (Result, error) {
	id, err := reference("PAY")
	if err != nil {
		return Result{}, err
	}
	return Result{
		Success:     true,
		PaymentID:   id,
		AmountCents: amountCents,
		Method:      method,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// ProcessRefund simulates refunding a previously captured payment.
func ProcessRefund(paymentID string, amountCents uint32) (Result, error) {
	id, err := reference("REFUND")
	if err != nil {
		return Result{}, err
	}
	return Result{
		Success:     true,
		PaymentID:   id,
		AmountCents: amountCents,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// ValidatePaymentID performs the minimal sanity check a gateway
// reference must pass before we store it.
func ValidatePaymentID(paymentID string) bool {
	return len(strings.TrimSpace(paymentID)) > 10
}

// reference builds an ID like PAY_1693400000_AB12CD34EF.
func reference(prefix string) (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UTC().Unix(), strings.ToUpper(hex.EncodeToString(buf))), nil
}
