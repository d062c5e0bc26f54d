package services

import "math"

// Level curve: the XP cost of climbing out of level n is
// floor(BaseXPPerLevel * GrowthFactor^(n-1)), so each level costs 20% more
// than the last. Level is unbounded.
const (
	BaseXPPerLevel = 100
	GrowthFactor   = 1.2
)

// xpCostOfLevel returns the XP needed to go from level n to n+1, saturating
// at MaxInt64 once the geometric cost leaves int64 range (around level 215).
func xpCostOfLevel(n int) int64 {
	if n < 1 {
		n = 1
	}
	cost := math.Floor(BaseXPPerLevel * math.Pow(GrowthFactor, float64(n-1)))
	if cost >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(cost)
}

// CalculateLevel maps accumulated XP to a level. Level is the largest n
// such that the cumulative cost of levels 1..n-1 is <= xp; xp=0 gives 1.
func CalculateLevel(xp int64) int {
	if xp < 0 {
		return 1
	}
	level := 1
	var cumulative int64
	for {
		// cost > xp-cumulative is the overflow-safe form of
		// cumulative+cost > xp; cumulative never exceeds xp here.
		cost := xpCostOfLevel(level)
		if cost <= 0 || cost > xp-cumulative {
			return level
		}
		cumulative += cost
		level++
	}
}

// XPForLevel returns the total XP required to reach the given level,
// i.e. the cumulative cost of levels 1..level-1. Level 1 costs nothing.
func XPForLevel(level int) int64 {
	var total int64
	for n := 1; n < level; n++ {
		total += xpCostOfLevel(n)
	}
	return total
}

// LevelProgress describes position within the current level band.
type LevelProgress struct {
	Level    int     `json:"level"`
	Current  int64   `json:"current"`  // XP earned inside the band
	Needed   int64   `json:"needed"`   // band width
	Progress float64 `json:"progress"` // percent, clamped to [0,100]
}

// XPToNextLevel reports progress toward the next level for the given XP.
func XPToNextLevel(xp int64) LevelProgress {
	if xp < 0 {
		xp = 0
	}
	level := CalculateLevel(xp)
	floor := XPForLevel(level)
	needed := xpCostOfLevel(level)

	current := xp - floor
	progress := float64(current) / float64(needed) * 100
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return LevelProgress{
		Level:    level,
		Current:  current,
		Needed:   needed,
		Progress: progress,
	}
}
