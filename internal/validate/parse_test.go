package validate

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     any
		name    string
		want    string
		wantErr error
	}{
		{name: "plain integer string", raw: "500000", want: "500000"},
		{name: "decimal point", raw: "1234.56", want: "1234.56"},
		{name: "decimal comma", raw: "1234,56", want: "1234.56"},
		{name: "rupiah prefix with dot grouping", raw: "Rp 1.000.000", want: "1000000"},
		{name: "rupiah grouping with decimal comma", raw: "Rp 1.000.000,50", want: "1000000.5"},
		{name: "western grouping with decimal point", raw: "1,000,000.50", want: "1000000.5"},
		{name: "single dot is a decimal point", raw: "1.000", want: "1"},
		{name: "lone dot with two trailing digits is decimal", raw: "10.50", want: "10.5"},
		{name: "three decimal places survive", raw: "100.125", want: "100.125"},
		{name: "repeated dots are grouping", raw: "250.000.000", want: "250000000"},
		{name: "idr marker", raw: "IDR 250000", want: "250000"},
		{name: "negative amount", raw: "-100", want: "-100"},
		{name: "int value", raw: 42, want: "42"},
		{name: "int64 value", raw: int64(7), want: "7"},
		{name: "float value", raw: 99.9, want: "99.9"},
		{name: "decimal value", raw: decimal.RequireFromString("3.14"), want: "3.14"},
		{name: "nil is empty", raw: nil, wantErr: ErrEmptyValue},
		{name: "blank string is empty", raw: "   ", wantErr: ErrEmptyValue},
		{name: "marker only is empty", raw: "Rp", wantErr: ErrEmptyValue},
		{name: "garbage text", raw: "abc", wantErr: ErrNotANumber},
		{name: "unsupported type", raw: []string{"1"}, wantErr: ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseAmount(%v) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%v) unexpected error: %v", tt.raw, err)
			}
			if want := decimal.RequireFromString(tt.want); !got.Equal(want) {
				t.Errorf("ParseAmount(%v) = %s, want %s", tt.raw, got, want)
			}
		})
	}
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		raw     any
		name    string
		wantErr error
		want    int64
	}{
		{name: "plain integer string", raw: "100", want: 100},
		{name: "grouped integer string", raw: "1.000.000", want: 1000000},
		{name: "int value", raw: 50, want: 50},
		{name: "int64 value", raw: int64(7), want: 7},
		{name: "whole float", raw: 25.0, want: 25},
		{name: "whole decimal", raw: decimal.NewFromInt(12), want: 12},
		{name: "zero is parseable", raw: "0", want: 0},
		{name: "fractional float", raw: 2.5, wantErr: ErrNotAnInt},
		{name: "fractional string", raw: "2,5", wantErr: ErrNotAnInt},
		{name: "fractional decimal", raw: decimal.RequireFromString("1.5"), wantErr: ErrNotAnInt},
		{name: "nil is empty", raw: nil, wantErr: ErrEmptyValue},
		{name: "blank string is empty", raw: " ", wantErr: ErrEmptyValue},
		{name: "garbage text", raw: "many", wantErr: ErrNotANumber},
		{name: "unsupported type", raw: struct{}{}, wantErr: ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUnits(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseUnits(%v) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseUnits(%v) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseUnits(%v) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	if !IsEmpty(nil) {
		t.Error("IsEmpty(nil) = false, want true")
	}
	if !IsEmpty("  ") {
		t.Error(`IsEmpty("  ") = false, want true`)
	}
	if IsEmpty("0") {
		t.Error(`IsEmpty("0") = true, want false`)
	}
	if IsEmpty(0) {
		t.Error("IsEmpty(0) = true, want false")
	}
}
