package main

import (
	"errors"
	"flag"
	"testing"
	"time"

	"github.com/avtohub/avtohub/internal/model"
	"github.com/avtohub/avtohub/internal/session"
)

func Test_newHTTPClient(t *testing.T) {
	t.Parallel()

	if c := newHTTPClient(0); c.Timeout != 10*time.Second {
		t.Fatalf("zero timeout must fall back to default, got %v", c.Timeout)
	}
	if c := newHTTPClient(3 * time.Second); c.Timeout != 3*time.Second {
		t.Fatalf("timeout not applied: %v", c.Timeout)
	}
}

func Test_carFlags_Parse(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("car-add", flag.ContinueOnError)
	in := carFlags(fs)
	if err := fs.Parse([]string{
		"-make", "Volvo", "-model", "XC60", "-year", "2021",
		"-fuel", "diesel", "-engine", "2.0", "-primary",
	}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.Make != "Volvo" || in.Model != "XC60" || in.Year != 2021 {
		t.Fatalf("basic fields: %+v", in)
	}
	if in.FuelType != "diesel" || in.EngineSize != 2.0 || !in.IsPrimary {
		t.Fatalf("optional fields: %+v", in)
	}
}

func Test_carFlags_AddDefaults(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("car-add", flag.ContinueOnError)
	in := carFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}
	// parsing alone leaves everything unset
	if in.Year != 0 || in.FuelType != "" || in.IsPrimary {
		t.Fatalf("flags must parse to zero values, got %+v", in)
	}

	applyCarDefaults(in)
	if in.Year != time.Now().Year() {
		t.Fatalf("car-add year must default to the current year, got %d", in.Year)
	}
	if in.FuelType != "petrol" {
		t.Fatalf("car-add fuel must default to petrol, got %q", in.FuelType)
	}
}

// An edit must only touch the fields the user names: a diesel car edited
// without -fuel stays diesel instead of being silently reset.
func Test_mergeCarInput_KeepsUnsetFields(t *testing.T) {
	t.Parallel()

	cur := model.Car{
		ID:         "c1",
		Make:       "Volvo",
		Model:      "XC60",
		Year:       2019,
		Color:      "black",
		FuelType:   "diesel",
		EngineSize: 2.0,
		IsPrimary:  true,
	}

	fs := flag.NewFlagSet("car-edit", flag.ContinueOnError)
	in := carFlags(fs)
	if err := fs.Parse([]string{"-color", "red"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	mergeCarInput(in, setFlags(fs), cur)

	if in.Color != "red" {
		t.Fatalf("explicit flag must win, got color %q", in.Color)
	}
	if in.FuelType != "diesel" {
		t.Fatalf("fuel not given, must keep stored value, got %q", in.FuelType)
	}
	if in.Make != "Volvo" || in.Model != "XC60" || in.Year != 2019 {
		t.Fatalf("unset fields must keep stored values: %+v", in)
	}
	if in.EngineSize != 2.0 || !in.IsPrimary {
		t.Fatalf("unset fields must keep stored values: %+v", in)
	}
}

func Test_failureMessage(t *testing.T) {
	t.Parallel()

	err := errors.New("order not found")
	if got := failureMessage(false, err); got != "order not found" {
		t.Fatalf("plain failure: %q", got)
	}
	got := failureMessage(true, err)
	want := session.MsgSessionExpired + " (avtohub login)"
	if got != want {
		t.Fatalf("expired failure: got %q, want %q", got, want)
	}
}

func Test_serviceFlags_Parse(t *testing.T) {
	t.Parallel()

	fs := flag.NewFlagSet("service-add", flag.ContinueOnError)
	in := serviceFlags(fs)
	if err := fs.Parse([]string{
		"-name", "Oil change", "-category", "maintenance", "-price", "35",
		"-duration", "45", "-city", "Minsk",
	}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.Name != "Oil change" || in.Category != "maintenance" || in.Price != 35 {
		t.Fatalf("required fields: %+v", in)
	}
	if in.Duration != 45 || in.City != "Minsk" {
		t.Fatalf("optional fields: %+v", in)
	}
}
