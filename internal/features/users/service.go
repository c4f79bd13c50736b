package users

import "time"

// NextStreak folds today's review activity into the streak. Posting twice on
// the same day keeps the streak, a post on the following day extends it, and
// any gap resets the count to one.
func NextStreak(streak Streak, now time.Time) Streak {
	today := now.Truncate(24 * time.Hour)

	if streak.LastActivityDate == nil {
		streak.Current = 1
	} else {
		last := streak.LastActivityDate.Truncate(24 * time.Hour)
		switch days := int(today.Sub(last).Hours() / 24); {
		case days == 0:
			// same day, nothing changes
		case days == 1:
			streak.Current++
		default:
			streak.Current = 1
		}
	}

	if streak.Current > streak.Longest {
		streak.Longest = streak.Current
	}
	streak.LastActivityDate = &today

	return streak
}

// EligibleBadges returns badges the user qualifies for but has not earned yet.
func EligibleBadges(user *User) []string {
	var earned []string

	add := func(name string, qualifies bool) {
		if qualifies && !user.HasBadge(name) {
			earned = append(earned, name)
		}
	}

	add(BadgeFirstReview, user.ReviewCount >= 1)
	add(BadgeCritic, user.ReviewCount >= 10)
	add(BadgeGenreExplorer, len(user.ReviewedGenres) >= 10)
	add(BadgeFormatHopper, user.HasReviewedBothFormats())
	add(BadgeWeekStreak, user.Streak.Current >= 7)
	add(BadgeMonthStreak, user.Streak.Current >= 30)
	add(BadgeHelpfulVoice, user.ReviewCount >= 10 && user.HelpfulnessRatio >= 0.8)

	return earned
}
