package bitset

import (
	"testing"
)

func TestFixed(t *testing.T) {
	f := New(100)

	if f.Len() != 100 {
		t.Errorf("expected len 100, got %d", f.Len())
	}

	f.Set(10)
	if !f.Test(10) {
		t.Errorf("expected bit 10 to be set")
	}
	if f.Test(11) {
		t.Errorf("expected bit 11 to be unset")
	}

	f.Set(20)
	f.Set(63)
	f.Set(64)
	if f.Count() != 4 {
		t.Errorf("expected count 4, got %d", f.Count())
	}
}

func TestFixed_PrevSetBit(t *testing.T) {
	f := New(200)
	f.Set(0)
	f.Set(5)
	f.Set(63)
	f.Set(64)
	f.Set(130)

	tests := []struct {
		from uint32
		want int
	}{
		{0, 0},
		{4, 0},
		{5, 5},
		{62, 5},
		{63, 63},
		{64, 64},
		{129, 64},
		{130, 130},
		{199, 130},
	}
	for _, tt := range tests {
		if got := f.PrevSetBit(tt.from); got != tt.want {
			t.Errorf("PrevSetBit(%d) = %d, want %d", tt.from, got, tt.want)
		}
	}

	empty := New(128)
	if got := empty.PrevSetBit(127); got != -1 {
		t.Errorf("expected -1 on empty set, got %d", got)
	}
}

func TestFixed_NextSetBit(t *testing.T) {
	f := New(200)
	f.Set(5)
	f.Set(64)
	f.Set(130)

	tests := []struct {
		from uint32
		want int
	}{
		{0, 5},
		{5, 5},
		{6, 64},
		{64, 64},
		{65, 130},
		{131, -1},
	}
	for _, tt := range tests {
		if got := f.NextSetBit(tt.from); got != tt.want {
			t.Errorf("NextSetBit(%d) = %d, want %d", tt.from, got, tt.want)
		}
	}
}

func TestFixed_FromWords(t *testing.T) {
	f := New(70)
	f.Set(3)
	f.Set(69)

	g := FromWords(f.Words(), f.Len())
	if !g.Test(3) || !g.Test(69) {
		t.Errorf("expected bits to survive FromWords round-trip")
	}
	if g.Count() != 2 {
		t.Errorf("expected count 2, got %d", g.Count())
	}
}
