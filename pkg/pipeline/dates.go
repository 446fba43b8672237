package pipeline

import "time"

// PublishDate assigns a keyword to a day slot by its ordinal position across
// the full backlog. The backlog is spread evenly over a window that starts
// backdateDays in the past and extends futureDays forward, producing an
// organically-dated archive instead of a wall of same-day posts.
func PublishDate(today time.Time, ordinal, backlog, backdateDays, futureDays int) time.Time {
	window := backdateDays + futureDays
	if window < 1 {
		window = 1
	}

	postsPerDay := (backlog + window - 1) / window
	if postsPerDay < 1 {
		postsPerDay = 1
	}

	slot := (ordinal - 1) / postsPerDay
	return today.AddDate(0, 0, slot-backdateDays+1)
}
