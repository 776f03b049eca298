package month

import (
	"testing"
	"time"
)

func TestOf(t *testing.T) {
	d := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	if got := Of(d); got != "2024-03" {
		t.Errorf("Of = %q, want %q", got, "2024-03")
	}
}

func TestOfDate(t *testing.T) {
	cases := []struct {
		date string
		want Key
	}{
		{"2024-03-15", "2024-03"},
		{"2024-12-01", "2024-12"},
		{"2024-03", "2024-03"},
		{"bad", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := OfDate(c.date); got != c.want {
			t.Errorf("OfDate(%q) = %q, want %q", c.date, got, c.want)
		}
	}
}

func TestPrevWrapsYear(t *testing.T) {
	if got := Key("2024-01").Prev(); got != "2023-12" {
		t.Errorf("Prev = %q, want %q", got, "2023-12")
	}
	if got := Key("2024-07").Prev(); got != "2024-06" {
		t.Errorf("Prev = %q, want %q", got, "2024-06")
	}
}

func TestSub(t *testing.T) {
	if got := Key("2024-02").Sub(3); got != "2023-11" {
		t.Errorf("Sub(3) = %q, want %q", got, "2023-11")
	}
	if got := Key("2024-02").Sub(0); got != "2024-02" {
		t.Errorf("Sub(0) = %q, want %q", got, "2024-02")
	}
}

func TestWindow(t *testing.T) {
	keys := Window("2024-02", 4)
	want := []Key{"2023-11", "2023-12", "2024-01", "2024-02"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	// Strictly increasing, no duplicates
	for i := 1; i < len(keys); i++ {
		if keys[i] <= keys[i-1] {
			t.Errorf("keys not strictly increasing at %d: %q <= %q", i, keys[i], keys[i-1])
		}
	}
}

func TestWindowEmpty(t *testing.T) {
	if got := Window("2024-02", 0); got != nil {
		t.Errorf("expected nil for n=0, got %v", got)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-03-05", "2024-03-05", false},
		{"2024-3-5", "2024-03-05", false},
		{" 2024-12-31 ", "2024-12-31", false},
		{"2024-13-01", "", true},
		{"05/03/2024", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := NormalizeDate(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("NormalizeDate(%q): expected error, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeDate(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValid(t *testing.T) {
	if !Key("2024-03").Valid() {
		t.Error("2024-03 should be valid")
	}
	if Key("2024-13").Valid() {
		t.Error("2024-13 should be invalid")
	}
	if Key("nope").Valid() {
		t.Error("nope should be invalid")
	}
}
