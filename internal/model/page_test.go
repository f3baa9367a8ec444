package model

import (
	"math"
	"testing"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name       string
		number     int
		size       int
		max        int
		wantNumber int
		wantSize   int
		wantOffset int
	}{
		{"first-page", 1, 10, 50, 1, 10, 0},
		{"third-page", 3, 10, 50, 3, 10, 20},
		{"zero-page-clamped", 0, 10, 50, 1, 10, 0},
		{"negative-page-clamped", -4, 10, 50, 1, 10, 0},
		{"zero-size-clamped", 2, 0, 50, 2, 1, 1},
		{"size-over-max", 2, 500, 50, 2, 50, 50},
		{"no-max", 2, 500, 0, 2, 500, 500},
		{"huge-page-capped", math.MaxInt / 5, 10, 100, math.MaxInt/10 + 1, 10, math.MaxInt / 10 * 10},
		{"max-page-unit-size", math.MaxInt, 1, 0, math.MaxInt, 1, math.MaxInt - 1},
		{"max-page-max-size", math.MaxInt, math.MaxInt, 0, 2, math.MaxInt, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.number, tt.size, tt.max)
			if p.Number != tt.wantNumber || p.Size != tt.wantSize {
				t.Fatalf("NewPage() = %+v, want number=%d size=%d", p, tt.wantNumber, tt.wantSize)
			}
			if p.Offset() != tt.wantOffset {
				t.Fatalf("Offset() = %d, want %d", p.Offset(), tt.wantOffset)
			}
		})
	}
}

func TestPageOffset_ZeroValue(t *testing.T) {
	if got := (Page{}).Offset(); got != 0 {
		t.Fatalf("Offset() = %d, want 0", got)
	}
}

func TestPageOffset_NeverNegative(t *testing.T) {
	for _, size := range []int{1, 2, 7, 10, 100, 1 << 20, math.MaxInt} {
		p := NewPage(math.MaxInt, size, 0)
		if p.Offset() < 0 {
			t.Fatalf("NewPage(MaxInt, %d).Offset() = %d", size, p.Offset())
		}
	}
}

func TestParseAssociationKind(t *testing.T) {
	kind, ok := ParseAssociationKind(" Video_Like ")
	if !ok || kind != KindVideoLike {
		t.Fatalf("ParseAssociationKind() = %q, %v", kind, ok)
	}
	if _, ok := ParseAssociationKind("follow"); ok {
		t.Fatalf("unknown kind must be rejected")
	}
}
