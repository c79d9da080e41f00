package calculator

import (
	"math"
	"testing"

	"github.com/markcheno/go-talib"
)

func dailyCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/7) + float64(i)*0.05
	}
	return closes
}

func leadingNils(values []*float64) int {
	n := 0
	for _, v := range values {
		if v != nil {
			break
		}
		n++
	}
	return n
}

func TestSMA_RunningMean(t *testing.T) {
	closes := dailyCloses(250)
	got := SMA(20, closes)
	if len(got) != 250 {
		t.Fatalf("expected 250 values, got %d", len(got))
	}
	if n := leadingNils(got); n != 19 {
		t.Fatalf("expected 19 leading nils, got %d", n)
	}
	for i := 19; i < 250; i++ {
		if got[i] == nil {
			t.Fatalf("index %d: unexpected nil", i)
		}
		sum := 0.0
		for j := i - 19; j <= i; j++ {
			sum += closes[j]
		}
		if want := sum / 20; math.Abs(*got[i]-want) > 1e-9 {
			t.Errorf("index %d: got %.10f, want %.10f", i, *got[i], want)
		}
	}
}

func TestSMA_MatchesTalib(t *testing.T) {
	closes := dailyCloses(300)
	for _, w := range []int{20, 50, 100, 150, 200} {
		got := SMA(w, closes)
		ref := talib.Sma(closes, w)
		for i := w - 1; i < len(closes); i++ {
			if math.Abs(*got[i]-ref[i]) > 1e-6 {
				t.Fatalf("window %d index %d: got %f, talib %f", w, i, *got[i], ref[i])
			}
		}
	}
}

func TestSMA_ShortInput(t *testing.T) {
	got := SMA(50, dailyCloses(49))
	if len(got) != 49 {
		t.Fatalf("expected 49 values, got %d", len(got))
	}
	for i, v := range got {
		if v != nil {
			t.Fatalf("index %d: expected nil", i)
		}
	}
	if len(SMA(20, nil)) != 0 {
		t.Error("expected empty output for empty input")
	}
}

func TestSMA_ExactWindow(t *testing.T) {
	got := SMA(3, []float64{1, 2, 3})
	if got[0] != nil || got[1] != nil || got[2] == nil || *got[2] != 2 {
		t.Fatalf("unexpected output %v", got)
	}
}

func TestRSI_LeadingNils(t *testing.T) {
	for _, n := range []int{14, 15, 60, 250} {
		got := RSI(dailyCloses(n))
		if len(got) != n {
			t.Fatalf("n=%d: length %d", n, len(got))
		}
		if lead := leadingNils(got); lead != 13 {
			t.Errorf("n=%d: expected 13 leading nils, got %d", n, lead)
		}
		for i := 13; i < n; i++ {
			if got[i] == nil || *got[i] < 0 || *got[i] > 100 {
				t.Fatalf("n=%d index %d: value out of range", n, i)
			}
		}
	}
}

func TestRSI_ShortInput(t *testing.T) {
	got := RSI(dailyCloses(13))
	if len(got) != 13 {
		t.Fatalf("expected 13 values, got %d", len(got))
	}
	for _, v := range got {
		if v != nil {
			t.Fatal("expected all nil")
		}
	}
}

func TestRSI_Extremes(t *testing.T) {
	up := make([]float64, 30)
	flat := make([]float64, 30)
	for i := range up {
		up[i] = float64(i + 1)
		flat[i] = 42
	}
	if v := RSI(up)[29]; v == nil || *v != 100 {
		t.Errorf("rising series: expected 100, got %v", v)
	}
	if v := RSI(flat)[29]; v == nil || *v != 50 {
		t.Errorf("flat series: expected 50, got %v", v)
	}
	down := make([]float64, 30)
	for i := range down {
		down[i] = float64(100 - i)
	}
	if v := RSI(down)[29]; v == nil || *v != 0 {
		t.Errorf("falling series: expected 0, got %v", v)
	}
}

func TestSafe_RecoversPanic(t *testing.T) {
	got := Safe(nil, "boom", 5, func() []*float64 {
		var closes []float64
		_ = closes[3]
		return nil
	})
	if len(got) != 5 {
		t.Fatalf("expected length 5, got %d", len(got))
	}
	for _, v := range got {
		if v != nil {
			t.Fatal("expected all nil after panic")
		}
	}
}

func TestSafe_LengthMismatchAndNaN(t *testing.T) {
	got := Safe(nil, "short", 4, func() []*float64 { return make([]*float64, 2) })
	if len(got) != 4 {
		t.Fatalf("expected length 4, got %d", len(got))
	}
	nan := math.NaN()
	one := 1.0
	got = Safe(nil, "nan", 2, func() []*float64 { return []*float64{&nan, &one} })
	if got[0] != nil || got[1] == nil {
		t.Fatalf("expected NaN nulled, got %v", got)
	}
}

func TestLeftPadAndScatter(t *testing.T) {
	a, b := 1.0, 2.0
	padded := LeftPad([]*float64{&a, &b}, 4)
	if len(padded) != 4 || padded[0] != nil || padded[1] != nil || *padded[2] != 1 {
		t.Fatalf("unexpected LeftPad output %v", padded)
	}
	scattered := Scatter([]*float64{&a, &b}, []bool{true, false, true, false})
	if scattered[0] == nil || *scattered[0] != 1 || scattered[1] != nil || *scattered[2] != 2 || scattered[3] != nil {
		t.Fatalf("unexpected Scatter output %v", scattered)
	}
	fallback := Scatter([]*float64{&a}, []bool{true, true, false})
	if fallback[0] != nil || fallback[1] != nil || *fallback[2] != 1 {
		t.Fatalf("expected LeftPad fallback, got %v", fallback)
	}
}

func TestWindowRange(t *testing.T) {
	h1, h2, l1 := 10.0, 12.0, 8.0
	high, low, err := WindowRange([]*float64{&h1, nil, &h2}, []*float64{nil, &l1})
	if err != nil || high != 12 || low != 8 {
		t.Fatalf("got %v %v %v", high, low, err)
	}
	if _, _, err := WindowRange(nil, nil); err == nil {
		t.Error("expected error for empty window")
	}
	pos, _ := Position(11, 12, 8)
	if pos != 0.75 {
		t.Errorf("expected 0.75, got %v", pos)
	}
}
