package dsp

import (
	"math"
	"testing"
)

func TestNormalizeSC16Q11Range(t *testing.T) {
	last := math.Inf(-1)
	for s := -2048; s <= 2047; s++ {
		v := NormalizeSC16Q11(int16(s))
		if v < -1.0 || v >= 1.0 {
			t.Fatalf("normalize(%d) = %v out of [-1, 1)", s, v)
		}
		if v <= last {
			t.Fatalf("normalize(%d) = %v not above normalize(%d) = %v", s, v, s-1, last)
		}
		last = v
	}
}

func TestNormalizeSC16Q11Exact(t *testing.T) {
	tts := []struct {
		in  int16
		out float64
	}{
		{-2048, -1.0},
		{0, 0.0},
		{2047, 2047.0 / 2048.0},
		{1024, 0.5},
		{-1, -1.0 / 2048.0},
	}
	for _, tt := range tts {
		if v := NormalizeSC16Q11(tt.in); v != tt.out {
			t.Errorf("normalize(%d) = %v, expected %v", tt.in, v, tt.out)
		}
	}
}

func TestAppendSC16Q11Order(t *testing.T) {
	src := []int16{1024, -1024, 0, 2047, -2048, 512}
	out := AppendSC16Q11(nil, src)
	if len(out) != len(src)/2 {
		t.Fatalf("got %d samples, expected %d", len(out), len(src)/2)
	}
	expected := []complex128{complex(0.5, -0.5), complex(0, 2047.0/2048.0), complex(-1, 0.25)}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("sample %d = %v, expected %v", i, out[i], expected[i])
		}
	}
}

func TestAppendSC16Q11Reuse(t *testing.T) {
	buf := make([]complex128, 0, 4)
	src := []int16{1, 2, 3, 4, 5, 6, 7, 8}
	buf = AppendSC16Q11(buf, src)
	p := &buf[0]
	buf = AppendSC16Q11(buf[:0], src)
	if &buf[0] != p {
		t.Fatal("reallocated buffer with enough capacity")
	}
	if len(buf) != 4 {
		t.Fatalf("got %d samples after reuse", len(buf))
	}
}

func TestAppendSC16Q11OddPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on odd length block")
		}
	}()
	AppendSC16Q11(nil, []int16{1, 2, 3})
}

func TestPower(t *testing.T) {
	c := complex(0.6, -0.8)
	if p := Power(c); math.Abs(p-1.0) > 1e-12 {
		t.Errorf("power = %v, expected 1", p)
	}
	if a := Amplitude(complex(3, 4)); a != 5 {
		t.Errorf("amplitude = %v, expected 5", a)
	}
	if db := DB(complex(0.1, 0)); math.Abs(db+20) > 1e-9 {
		t.Errorf("db = %v, expected -20", db)
	}
	if db := DB(0); !math.IsInf(db, -1) {
		t.Errorf("db of zero sample = %v, expected -Inf", db)
	}
}
