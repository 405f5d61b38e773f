// Package progression holds the leveling and streak rules. Everything here is
// a pure function over already-loaded values; callers persist the outcome.
package progression

import "time"

// XPToNextLevel returns the XP needed to clear the given level.
func XPToNextLevel(level int) int {
	return level * 20
}

// AddXP applies an award to a (level, xp) pair. XP carries over across level
// boundaries, so a single large award can advance several levels. The
// returned xp is always below the next threshold. leveledUp reports whether
// at least one level was gained.
func AddXP(level, xp, amount int) (newLevel, newXP int, leveledUp bool) {
	newLevel, newXP = level, xp+amount
	for newXP >= XPToNextLevel(newLevel) {
		newXP -= XPToNextLevel(newLevel)
		newLevel++
	}
	return newLevel, newXP, newLevel > level
}

// TotalXP is the lifetime XP implied by a (level, xp) pair: the sum of all
// cleared thresholds plus the current remainder.
func TotalXP(level, xp int) int {
	return 20*level*(level-1)/2 + xp
}

// Streak counts consecutive-day completions walking the given completion
// times from most recent to oldest. Only the calendar date matters. A gap of
// anything other than exactly one day ends the walk, so a second completion
// on the same date (a zero-day gap) ends it too.
func Streak(completions []time.Time) int {
	if len(completions) == 0 {
		return 0
	}
	streak := 1
	prev := dateOf(completions[0])
	for _, t := range completions[1:] {
		cur := dateOf(t)
		if int(prev.Sub(cur).Hours()/24) != 1 {
			break
		}
		streak++
		prev = cur
	}
	return streak
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
