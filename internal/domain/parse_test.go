package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseHHMM(t *testing.T) {
	cases := []struct {
		in      string
		hh, mm  int
		wantErr bool
	}{
		{"15:00", 15, 0, false},
		{"7:05", 7, 5, false},
		{"00:00", 0, 0, false},
		{"23:59", 23, 59, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
		{"12.30", 0, 0, true},
		{"", 0, 0, true},
	}
	for _, c := range cases {
		hh, mm, err := ParseHHMM(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseHHMM(%q): want error", c.in)
			} else if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseHHMM(%q): error not ErrInvalidInput: %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHHMM(%q): %v", c.in, err)
			continue
		}
		if hh != c.hh || mm != c.mm {
			t.Errorf("ParseHHMM(%q) = %d:%d, want %d:%d", c.in, hh, mm, c.hh, c.mm)
		}
	}
}

func TestParseHHMM_RoundTrip(t *testing.T) {
	for _, in := range []string{"00:00", "09:05", "17:00", "23:59"} {
		hh, mm, err := ParseHHMM(in)
		if err != nil {
			t.Fatalf("ParseHHMM(%q): %v", in, err)
		}
		if got := FormatHHMM(hh, mm); got != in {
			t.Errorf("round trip %q -> %q", in, got)
		}
	}
}

func TestValidateTZ(t *testing.T) {
	if tz, err := ValidateTZ("America/Detroit"); err != nil || tz != "America/Detroit" {
		t.Fatalf("got %q, %v", tz, err)
	}
	if _, err := ValidateTZ("Detroit"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestParseCoords(t *testing.T) {
	lat, lon, err := ParseCoords("42.3314, -83.0458")
	if err != nil {
		t.Fatalf("ParseCoords: %v", err)
	}
	if lat != 42.3314 || lon != -83.0458 {
		t.Fatalf("got %v, %v", lat, lon)
	}
	for _, bad := range []string{"42.33", "91,0", "0,181", "a,b", ""} {
		if _, _, err := ParseCoords(bad); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseCoords(%q): want ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestNormalizeLocationPath(t *testing.T) {
	if p, err := NormalizeLocationPath(" /USA/Detroit "); err != nil || p != "usa/detroit" {
		t.Fatalf("got %q, %v", p, err)
	}
	if _, err := NormalizeLocationPath("two words"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestParseClockTime(t *testing.T) {
	for _, in := range []string{"7:12 pm", "07:12 PM", "19:12", "19:12:00"} {
		got, ok := ParseClockTime("America/Detroit", in)
		if !ok {
			t.Fatalf("ParseClockTime(%q): not parsed", in)
		}
		if got.Hour() != 19 || got.Minute() != 12 {
			t.Fatalf("ParseClockTime(%q) = %v", in, got)
		}
	}
	if _, ok := ParseClockTime("America/Detroit", "sometime"); ok {
		t.Fatal("garbage parsed")
	}
	if _, ok := ParseClockTime("America/Detroit", ""); ok {
		t.Fatal("empty parsed")
	}
}

func TestFormatDelta(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{95 * time.Minute, "1h 35m"},
		{45 * time.Minute, "45m"},
		{-5 * time.Minute, "0m"},
		{2 * time.Hour, "2h 0m"},
	}
	for _, c := range cases {
		if got := FormatDelta(c.d); got != c.want {
			t.Errorf("FormatDelta(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}
