// Package leveling holds the progression math: volume earns experience
// points, cumulative XP maps to a level against a geometrically growing
// per-level requirement. All functions are pure and total over
// non-negative inputs.
package leveling

import "math"

const (
	// XPPerRep is the experience earned per logged repetition.
	XPPerRep = 10
	// XPBase is the XP required to go from level 1 to level 2.
	XPBase = 100
	// XPMultiplier grows the per-level requirement geometrically.
	XPMultiplier = 1.5
)

// XPFromVolume converts a rep count into experience points.
func XPFromVolume(reps int) int {
	return reps * XPPerRep
}

// XPForLevel returns the XP required to advance from the given level to
// the next one: floor(XPBase * XPMultiplier^(level-1)).
func XPForLevel(level int) int {
	return int(math.Floor(XPBase * math.Pow(XPMultiplier, float64(level-1))))
}

// LevelFromXP returns the level reached with the given cumulative XP.
// Level 1 at 0 XP; each level consumes XPForLevel of the running total.
// Monotone non-decreasing in totalXP.
func LevelFromXP(totalXP int) int {
	level := 1
	required := XPForLevel(1)
	accumulated := 0

	for totalXP >= accumulated+required {
		accumulated += required
		level++
		required = XPForLevel(level)
	}

	return level
}

// Progress describes how far into the current level a profile is.
type Progress struct {
	Current    int     `json:"current"`
	Required   int     `json:"required"`
	Percentage float64 `json:"percentage"`
}

// XPProgress reports progress within currentLevel for the given total
// XP. The caller must supply a level computed by LevelFromXP; the
// function does not validate the pairing.
func XPProgress(totalXP, currentLevel int) Progress {
	accumulated := 0
	for i := 1; i < currentLevel; i++ {
		accumulated += XPForLevel(i)
	}

	required := XPForLevel(currentLevel)
	current := totalXP - accumulated
	percentage := float64(current) / float64(required) * 100

	return Progress{
		Current:    current,
		Required:   required,
		Percentage: math.Min(percentage, 100),
	}
}
