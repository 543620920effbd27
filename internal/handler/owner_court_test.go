package handler

import (
	"testing"

	"github.com/resnplay/court-booking-api/internal/model"
)

func validReq() courtReq {
	return courtReq{
		Name:              "Center Court",
		Address:           "1 Main St",
		City:              "Pune",
		PricePerHourCents: 50000,
		OperatingHours: model.OperatingHours{
			Start: "09:00",
			End:   "22:00",
		},
	}
}

func TestValidateCourtReq(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*courtReq)
		wantMsg bool
	}{
		{"valid", func(r *courtReq) {}, false},
		{"trims whitespace name", func(r *courtReq) { r.Name = "  Center Court  " }, false},
		{"missing name", func(r *courtReq) { r.Name = "   " }, true},
		{"missing address", func(r *courtReq) { r.Address = "" }, true},
		{"missing city", func(r *courtReq) { r.City = "" }, true},
		{"zero price", func(r *courtReq) { r.PricePerHourCents = 0 }, true},
		{"bad clock string", func(r *courtReq) {
			r.OperatingHours.Monday = &model.Window{Start: "9am", End: "22:00"}
		}, true},
		{"inverted window", func(r *courtReq) {
			r.OperatingHours.Friday = &model.Window{Start: "18:00", End: "09:00"}
		}, true},
		{"zero-length window", func(r *courtReq) {
			r.OperatingHours.Saturday = &model.Window{Start: "10:00", End: "10:00"}
		}, true},
		{"day windows without general hours", func(r *courtReq) {
			r.OperatingHours = model.OperatingHours{
				Monday: &model.Window{Start: "09:00", End: "21:00"},
			}
		}, false},
		{"bad general end", func(r *courtReq) {
			r.OperatingHours.End = "25:00"
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validReq()
			tc.mutate(&req)
			msg := validateCourtReq(&req)
			if tc.wantMsg && msg == "" {
				t.Fatal("expected a validation message, got none")
			}
			if !tc.wantMsg && msg != "" {
				t.Fatalf("unexpected validation message: %q", msg)
			}
		})
	}
}
