package validate

import (
	"strings"
	"testing"

	"github.com/avtohub/avtohub/internal/market"
	"github.com/avtohub/avtohub/internal/model"
	"github.com/avtohub/avtohub/internal/session"
)

func TestStruct_RegisterData(t *testing.T) {
	t.Parallel()

	ok := session.RegisterData{Name: "A", Email: "a@a.com", Password: "secret1", Role: model.RoleUser}
	if err := Struct(ok); err != nil {
		t.Fatalf("valid data rejected: %v", err)
	}

	bad := session.RegisterData{Email: "not-an-email", Password: "p", Role: "admin"}
	err := Struct(bad)
	if err == nil {
		t.Fatalf("want validation error")
	}
	msg := err.Error()
	for _, want := range []string{"name is required", "must be a valid email", "at least 6", "must be one of"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}

func TestStruct_OrderInput(t *testing.T) {
	t.Parallel()

	ok := market.OrderInput{
		ServiceID: "s1", CarID: "c1",
		ScheduledDate: "2026-09-07", PreferredTime: "14:30",
	}
	if err := Struct(ok); err != nil {
		t.Fatalf("valid booking rejected: %v", err)
	}

	if err := Struct(market.OrderInput{ServiceID: "s1", CarID: "c1", ScheduledDate: "07.09.2026", PreferredTime: "14:30"}); err == nil {
		t.Fatalf("want error on bad date format")
	}
}

func TestStruct_ReviewInput(t *testing.T) {
	t.Parallel()

	if err := Struct(market.ReviewInput{Rating: 5}); err != nil {
		t.Fatalf("valid review rejected: %v", err)
	}
	if err := Struct(market.ReviewInput{Rating: 6}); err == nil || !strings.Contains(err.Error(), "at most 5") {
		t.Fatalf("want rating upper bound error, got %v", err)
	}
	if err := Struct(market.ReviewInput{}); err == nil {
		t.Fatalf("want required rating error")
	}
}
