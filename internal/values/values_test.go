package values

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{10, 10, true},
		{int64(7), 7, true},
		{9.5, 9.5, true},
		{json.Number("12.25"), 12.25, true},
		{" 42 ", 42, true},
		{"", 0, false},
		{"ten", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}

	for _, tt := range tests {
		got, ok := Float(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Float(%#v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTime(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		in     any
		layout string
		ok     bool
	}{
		{"date only", "2024-03-15", "", true},
		{"rfc3339", "2024-03-15T00:00:00Z", "", true},
		{"rfc3339 millis", "2024-03-15T00:00:00.000Z", "", true},
		{"time value", want, "", true},
		{"unix millis", float64(want.UnixMilli()), "", true},
		{"custom layout", "15.03.2024", "02.01.2006", true},
		{"garbage", "not a date", "", false},
		{"empty", "", "", false},
		{"zero time", time.Time{}, "", false},
		{"nil", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Time(tt.in, tt.layout)
			if ok != tt.ok {
				t.Fatalf("Time(%#v) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && !got.Equal(want) {
				t.Errorf("Time(%#v) = %v, want %v", tt.in, got, want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 3, 15, 1, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("same calendar day not detected")
	}
	if SameDay(b, c) {
		t.Error("different days reported equal")
	}
}

func TestBoolAndString(t *testing.T) {
	if b, ok := Bool("Yes"); !ok || !b {
		t.Error(`Bool("Yes") should be true`)
	}
	if _, ok := Bool("maybe"); ok {
		t.Error(`Bool("maybe") should fail`)
	}
	if b, ok := Bool(0.0); !ok || b {
		t.Error("Bool(0) should be false")
	}

	if s, _ := String(20.0); s != "20" {
		t.Errorf("String(20.0) = %q, want 20", s)
	}
	if _, ok := String(nil); ok {
		t.Error("String(nil) should report missing")
	}
}

func TestSlice(t *testing.T) {
	got, ok := Slice([]int{1, 2})
	if !ok || len(got) != 2 || got[1] != 2 {
		t.Errorf("Slice([]int) = %v, %v", got, ok)
	}
	if _, ok := Slice("abc"); ok {
		t.Error("a string is not a slice")
	}
}
