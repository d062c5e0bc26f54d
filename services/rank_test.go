package services

import "testing"

func TestRankFromPoints(t *testing.T) {
	tests := []struct {
		points int64
		want   string
	}{
		{0, RankBronze},
		{499, RankBronze},
		{500, RankSilver},
		{1499, RankSilver},
		{1500, RankGold},
		{2999, RankGold},
		{3000, RankPlatinum},
		{4999, RankPlatinum},
		{5000, RankDiamond},
		{1000000, RankDiamond},
	}

	for _, tt := range tests {
		if got := RankFromPoints(tt.points); got != tt.want {
			t.Errorf("RankFromPoints(%d) = %q, want %q", tt.points, got, tt.want)
		}
	}
}

func TestRankFromPoints_Monotonic(t *testing.T) {
	prev := 0
	for points := int64(0); points <= 10000; points += 13 {
		order := rankOrder(RankFromPoints(points))
		if order < prev {
			t.Fatalf("rank order decreased at points=%d", points)
		}
		prev = order
	}
}

func TestRankAtLeast(t *testing.T) {
	tests := []struct {
		have, required string
		want           bool
	}{
		{RankBronze, RankBronze, true},
		{RankBronze, RankSilver, false},
		{RankGold, RankSilver, true},
		{RankDiamond, RankPlatinum, true},
		{RankPlatinum, RankDiamond, false},
		{"unknown", RankBronze, false},
		{RankGold, "unknown", false},
	}

	for _, tt := range tests {
		if got := RankAtLeast(tt.have, tt.required); got != tt.want {
			t.Errorf("RankAtLeast(%q, %q) = %v, want %v", tt.have, tt.required, got, tt.want)
		}
	}
}
