package payment

import "testing"

func TestCalculateRefund(t *testing.T) {
	tests := []struct {
		name  string
		total uint32
		hours float64
		want  uint32
	}{
		{"well before, full refund", 10000, 72, 10000},
		{"exactly 24h, full refund", 10000, 24, 10000},
		{"just under 24h, half refund", 10000, 23.99, 5000},
		{"exactly 12h, half refund", 10000, 12, 5000},
		{"just under 12h, quarter refund", 10000, 11.5, 2500},
		{"exactly 2h, quarter refund", 10000, 2, 2500},
		{"inside the blocked window, nothing", 10000, 1.99, 0},
		{"booking already started", 10000, -1, 0},
		{"zero amount", 0, 48, 0},
		{"odd cents truncate on half", 101, 12, 50},
		{"odd cents truncate on quarter", 103, 2, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateRefund(tt.total, tt.hours); got != tt.want {
				t.Errorf("CalculateRefund(%d, %v) = %d, want %d", tt.total, tt.hours, got, tt.want)
			}
		})
	}
}

func TestProcessPayment(t *testing.T) {
	res, err := ProcessPayment(4500, "card")
	if err != nil {
		t.Fatalf("ProcessPayment() error = %v", err)
	}
	if !res.Success {
		t.Error("simulated payment should succeed")
	}
	if !ValidatePaymentID(res.PaymentID) {
		t.Errorf("minted payment id %q fails its own validation", res.PaymentID)
	}
	if res.AmountCents != 4500 || res.Method != "card" {
		t.Errorf("result = %+v, want amount 4500 method card", res)
	}
}

func TestValidatePaymentID(t *testing.T) {
	if ValidatePaymentID("short") {
		t.Error("short id should be rejected")
	}
	if ValidatePaymentID("           ") {
		t.Error("whitespace id should be rejected")
	}
	if !ValidatePaymentID("PAY_1693400000_AB12CD34EF") {
		t.Error("well-formed id should be accepted")
	}
}
