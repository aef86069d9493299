// Package shopsvc - Test định dạng và phân tích mã đơn hàng.
package shopsvc

import (
	"testing"
	"time"
)

func TestFormatOrderNumber(t *testing.T) {
	date := time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC)
	cases := []struct {
		seq  int64
		want string
	}{
		{1, "ORD-20260831-0001"},
		{42, "ORD-20260831-0042"},
		{9999, "ORD-20260831-9999"},
		{10000, "ORD-20260831-10000"}, // vượt 4 chữ số thì dài ra, không cắt
	}
	for _, tc := range cases {
		got := FormatOrderNumber(date, tc.seq)
		if got != tc.want {
			t.Errorf("FormatOrderNumber(seq=%d) = %q, muốn %q", tc.seq, got, tc.want)
		}
	}
}

func TestParseOrderNumberSeq(t *testing.T) {
	cases := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"ORD-20260831-0001", 1, true},
		{"ORD-20260831-0042", 42, true},
		{"ORD-20260831-10000", 10000, true},
		{"XYZ-20260831-0001", 0, false},
		{"ORD-20260831", 0, false},
		{"ORD-20260831-abcd", 0, false},
		{"ORD-20260831-0000", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseOrderNumberSeq(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("ParseOrderNumberSeq(%q) = (%d, %v), muốn (%d, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestCounterKeyForDate(t *testing.T) {
	date := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if got := CounterKeyForDate(date); got != "order-20260105" {
		t.Errorf("CounterKeyForDate = %q, muốn %q", got, "order-20260105")
	}
}

func TestOrderNumberDatePrefix(t *testing.T) {
	date := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	if got := OrderNumberDatePrefix(date); got != "ORD-20260831-" {
		t.Errorf("OrderNumberDatePrefix = %q, muốn %q", got, "ORD-20260831-")
	}
}

func TestOrderNumber_RoundTrip(t *testing.T) {
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	for _, seq := range []int64{1, 7, 123, 9999, 12345} {
		number := FormatOrderNumber(date, seq)
		got, ok := ParseOrderNumberSeq(number)
		if !ok || got != seq {
			t.Errorf("round trip seq %d qua %q ra (%d, %v)", seq, number, got, ok)
		}
	}
}
