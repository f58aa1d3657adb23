package book

import (
	"errors"
	"testing"
)

func TestToTicks(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"100", 100 * TickFactor},
		{"100.25", 100*TickFactor + 25_000_000},
		{"0.00000001", 1},
		{"12345.6789", 1234567890000},
	}
	for _, c := range cases {
		got, err := ToTicks(c.in)
		if err != nil {
			t.Fatalf("ToTicks(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ToTicks(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestToTicks_Rejects(t *testing.T) {
	if _, err := ToTicks("not-a-price"); err == nil {
		t.Fatal("garbage input accepted")
	}
	if _, err := ToTicks("0.000000001"); !errors.Is(err, ErrSubTickPrice) {
		t.Fatalf("sub-tick price: %v", err)
	}
}

func TestFromTicks_RoundTrip(t *testing.T) {
	for _, s := range []string{"100", "100.25", "0.00000001", "99999.99999999"} {
		ticks, err := ToTicks(s)
		if err != nil {
			t.Fatalf("ToTicks(%q): %v", s, err)
		}
		got := FromTicks(ticks).String()
		want, _ := ToTicks(got)
		if want != ticks {
			t.Fatalf("round trip %q -> %d -> %q", s, ticks, got)
		}
	}
}
