package services

// Rank tiers in ascending order. Thresholds are on lifetime-style points:
// spending does not re-evaluate the tier downward, only award paths call
// RankFromPoints (see progression.go).
const (
	RankBronze   = "bronze"
	RankSilver   = "silver"
	RankGold     = "gold"
	RankPlatinum = "platinum"
	RankDiamond  = "diamond"
)

type rankThreshold struct {
	Name      string
	MinPoints int64
}

// rankTiers is ordered descending for first-match lookup.
var rankTiers = []rankThreshold{
	{RankDiamond, 5000},
	{RankPlatinum, 3000},
	{RankGold, 1500},
	{RankSilver, 500},
	{RankBronze, 0},
}

// RankFromPoints maps a point total to its tier name.
func RankFromPoints(points int64) string {
	for _, t := range rankTiers {
		if points >= t.MinPoints {
			return t.Name
		}
	}
	return RankBronze
}

// rankOrder returns the tier's position (bronze=1 .. diamond=5), 0 for an
// unknown tier so unknown requirements never unlock anything.
func rankOrder(rank string) int {
	switch rank {
	case RankBronze:
		return 1
	case RankSilver:
		return 2
	case RankGold:
		return 3
	case RankPlatinum:
		return 4
	case RankDiamond:
		return 5
	default:
		return 0
	}
}

// RankAtLeast reports whether have meets or exceeds the required tier.
func RankAtLeast(have, required string) bool {
	h, r := rankOrder(have), rankOrder(required)
	if h == 0 || r == 0 {
		return false
	}
	return h >= r
}
