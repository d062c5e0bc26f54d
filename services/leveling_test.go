package services

import (
	"math"
	"testing"
	"time"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		name string
		xp   int64
		want int
	}{
		{"zero xp is level 1", 0, 1},
		{"just under first band", 99, 1},
		{"exactly first band", 100, 2},
		{"inside second band", 150, 2},
		// band 2 costs floor(100*1.2)=120, so level 3 starts at 220
		{"just under level 3", 219, 2},
		{"exactly level 3", 220, 3},
		{"negative clamps to level 1", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateLevel(tt.xp); got != tt.want {
				t.Errorf("CalculateLevel(%d) = %d, want %d", tt.xp, got, tt.want)
			}
		})
	}
}

func TestCalculateLevel_Monotonic(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 50000; xp += 37 {
		level := CalculateLevel(xp)
		if level < 1 {
			t.Fatalf("CalculateLevel(%d) = %d, below 1", xp, level)
		}
		if level < prev {
			t.Fatalf("CalculateLevel(%d) = %d decreased from %d", xp, level, prev)
		}
		prev = level
	}
}

func TestCalculateLevel_ExtremeXP(t *testing.T) {
	// The geometric cost leaves int64 range around level 215; the loop must
	// still terminate at the top of the representable curve instead of
	// wrapping past MaxInt64.
	done := make(chan int, 1)
	go func() { done <- CalculateLevel(math.MaxInt64) }()

	select {
	case level := <-done:
		if level < 200 {
			t.Errorf("CalculateLevel(MaxInt64) = %d, expected the top of the curve", level)
		}
		if lo := XPForLevel(level); lo < 0 {
			t.Errorf("XPForLevel(%d) = %d, cumulative cost overflowed", level, lo)
		}
		if next := CalculateLevel(math.MaxInt64 - 1); next > level {
			t.Errorf("CalculateLevel(MaxInt64-1) = %d exceeds CalculateLevel(MaxInt64) = %d", next, level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("CalculateLevel(MaxInt64) did not terminate")
	}
}

func TestXPCostOfLevelSaturates(t *testing.T) {
	for _, n := range []int{1, 100, 215, 250, 1000} {
		if cost := xpCostOfLevel(n); cost <= 0 {
			t.Errorf("xpCostOfLevel(%d) = %d, must stay positive", n, cost)
		}
	}
	if cost := xpCostOfLevel(1000); cost != math.MaxInt64 {
		t.Errorf("xpCostOfLevel(1000) = %d, want saturation at MaxInt64", cost)
	}
}

func TestXPForLevel_BandContainment(t *testing.T) {
	// XPForLevel(level) <= xp < XPForLevel(level+1) for the derived level
	for xp := int64(0); xp <= 20000; xp += 113 {
		level := CalculateLevel(xp)
		lo := XPForLevel(level)
		hi := XPForLevel(level + 1)
		if xp < lo || xp >= hi {
			t.Fatalf("xp=%d: level %d band [%d,%d) does not contain it", xp, level, lo, hi)
		}
	}
}

func TestXPForLevel(t *testing.T) {
	if got := XPForLevel(1); got != 0 {
		t.Errorf("XPForLevel(1) = %d, want 0", got)
	}
	if got := XPForLevel(2); got != 100 {
		t.Errorf("XPForLevel(2) = %d, want 100", got)
	}
	if got := XPForLevel(3); got != 220 {
		t.Errorf("XPForLevel(3) = %d, want 220", got)
	}
}

func TestXPToNextLevel(t *testing.T) {
	p := XPToNextLevel(0)
	if p.Level != 1 || p.Current != 0 || p.Needed != 100 || p.Progress != 0 {
		t.Errorf("XPToNextLevel(0) = %+v, want level 1, 0/100, 0%%", p)
	}

	p = XPToNextLevel(150)
	if p.Level != 2 {
		t.Errorf("XPToNextLevel(150).Level = %d, want 2", p.Level)
	}
	if p.Current != 50 || p.Needed != 120 {
		t.Errorf("XPToNextLevel(150) = %d/%d, want 50/120", p.Current, p.Needed)
	}

	for xp := int64(0); xp <= 5000; xp += 61 {
		p := XPToNextLevel(xp)
		if p.Progress < 0 || p.Progress > 100 {
			t.Fatalf("XPToNextLevel(%d).Progress = %f, outside [0,100]", xp, p.Progress)
		}
	}
}
