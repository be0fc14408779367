// Package skill implements the experience-to-level curve shared by every skill.
package skill

import (
	"fmt"
	"math"
	"sort"
)

const (
	// MinLevel is the lowest attainable level.
	MinLevel = 1
	// MaxLevel is the highest attainable level.
	MaxLevel = 99
	// MaxExperience caps the experience any single skill can hold.
	MaxExperience = 200_000_000
)

// thresholds[l] is the experience required to reach level l; index 0 is unused.
var thresholds = buildThresholds()

func buildThresholds() [MaxLevel + 1]int {
	var t [MaxLevel + 1]int
	total := 0
	for l := MinLevel; l < MaxLevel; l++ {
		t[l] = total
		total += int(math.Floor((float64(l) + 300*math.Pow(2, float64(l)/7)) / 4))
	}
	t[MaxLevel] = total
	return t
}

// ExperienceForLevel returns the total experience required to reach level.
//
// Precondition: MinLevel <= level <= MaxLevel; out-of-range values are clamped.
// Postcondition: ExperienceForLevel(1) == 0; strictly increasing in level.
func ExperienceForLevel(level int) int {
	return thresholds[clampLevel(level)]
}

// LevelForExperience returns the largest level whose threshold is <= xp.
//
// Postcondition: Returns a level in [MinLevel, MaxLevel]; xp <= 0 yields MinLevel.
func LevelForExperience(xp int) int {
	if xp <= 0 {
		return MinLevel
	}
	// sort.Search finds the first level whose threshold exceeds xp.
	idx := sort.Search(MaxLevel, func(i int) bool {
		return thresholds[i+MinLevel] > xp
	})
	return idx
}

func clampLevel(level int) int {
	switch {
	case level < MinLevel:
		return MinLevel
	case level > MaxLevel:
		return MaxLevel
	default:
		return level
	}
}

func clampExperience(xp int) int {
	switch {
	case xp < 0:
		return 0
	case xp > MaxExperience:
		return MaxExperience
	default:
		return xp
	}
}

// Level is an immutable (level, experience) pair for one skill.
//
// Invariant: level == LevelForExperience(experience); 0 <= experience <= MaxExperience.
type Level struct {
	level      int
	experience int
}

// NewLevel returns the Level holding the minimum experience for level.
//
// Postcondition: Experience() == ExperienceForLevel(level) after clamping level.
func NewLevel(level int) Level {
	l := clampLevel(level)
	return Level{level: l, experience: thresholds[l]}
}

// FromExperience returns the Level for xp, clamping xp into [0, MaxExperience].
func FromExperience(xp int) Level {
	xp = clampExperience(xp)
	return Level{level: LevelForExperience(xp), experience: xp}
}

// Level returns the current level. The zero Level reports MinLevel.
func (l Level) Level() int {
	if l.level < MinLevel {
		return MinLevel
	}
	return l.level
}

// Experience returns the accumulated experience.
func (l Level) Experience() int { return l.experience }

// Add returns a new Level with gained experience added, capped at MaxExperience.
// Negative gains are ignored.
//
// Postcondition: result.Level() >= l.Level().
func (l Level) Add(gained int) Level {
	if gained <= 0 {
		return FromExperience(l.experience)
	}
	if gained > MaxExperience-l.experience {
		return FromExperience(MaxExperience)
	}
	return FromExperience(l.experience + gained)
}

// ExperienceToNext returns the experience still needed for the next level; 0 at MaxLevel.
func (l Level) ExperienceToNext() int {
	lvl := l.Level()
	if lvl >= MaxLevel {
		return 0
	}
	return thresholds[lvl+1] - l.experience
}

// ExperienceIntoLevel returns the experience earned since reaching the current level.
func (l Level) ExperienceIntoLevel() int {
	return l.experience - thresholds[l.Level()]
}

// Progress returns percentage progress towards the next level in [0, 100]; 100 at MaxLevel.
func (l Level) Progress() float64 {
	lvl := l.Level()
	if lvl >= MaxLevel {
		return 100
	}
	span := thresholds[lvl+1] - thresholds[lvl]
	return float64(l.ExperienceIntoLevel()) / float64(span) * 100
}

// String returns e.g. "level 2 (83 xp)".
func (l Level) String() string {
	return fmt.Sprintf("level %d (%d xp)", l.Level(), l.experience)
}
