package users

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Badge names, each earned at most once.
const (
	BadgeFirstReview   = "First Review"
	BadgeCritic        = "Critic"
	BadgeGenreExplorer = "Genre Explorer"
	BadgeFormatHopper  = "Format Hopper"
	BadgeWeekStreak    = "Week Streak"
	BadgeMonthStreak   = "Monthly Devotion"
	BadgeHelpfulVoice  = "Helpful Voice"
)

// levelThresholds maps level (index+1) to the minimum total points required.
// Levels run 1..10 and only ever move up; a moderation penalty lowers points
// but never the level.
var levelThresholds = []int{0, 100, 250, 500, 1000, 2000, 3500, 5500, 8000, 12000}

type Points struct {
	Total     int `bson:"total" json:"total"`
	Available int `bson:"available" json:"available"`
}

type Streak struct {
	Current          int        `bson:"current" json:"current"`
	Longest          int        `bson:"longest" json:"longest"`
	LastActivityDate *time.Time `bson:"lastActivityDate,omitempty" json:"lastActivityDate,omitempty"`
}

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username    string             `bson:"username" json:"username"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`

	Points Points   `bson:"points" json:"points"`
	Level  int      `bson:"level" json:"level"`
	Badges []string `bson:"badges" json:"badges"`
	Streak Streak   `bson:"streak" json:"streak"`

	// Review history aggregates feeding credibility and diversity scoring
	ReviewCount         int      `bson:"reviewCount" json:"reviewCount"`
	ReviewedGenres      []string `bson:"reviewedGenres" json:"reviewedGenres"`
	ReviewedFormats     []string `bson:"reviewedFormats" json:"reviewedFormats"`
	AverageReviewLength float64  `bson:"averageReviewLength" json:"averageReviewLength"`
	HelpfulnessRatio    float64  `bson:"helpfulnessRatio" json:"helpfulnessRatio"`
	ExtremeRatingRatio  float64  `bson:"extremeRatingRatio" json:"extremeRatingRatio"`
	AverageQuality      float64  `bson:"averageQuality" json:"averageQuality"`

	// Moderation state
	SpamScore           int  `bson:"spamScore" json:"spamScore"`
	HasDuplicateContent bool `bson:"hasDuplicateContent" json:"hasDuplicateContent"`
}

// LevelForPoints returns the level (1-10) the given total points map to.
func LevelForPoints(total int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if total >= threshold {
			level = i + 1
		}
	}
	return level
}

// HasBadge reports whether the user already earned the named badge.
func (u *User) HasBadge(name string) bool {
	for _, b := range u.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// HasReviewedBothFormats reports whether the user reviewed both movies and tv.
func (u *User) HasReviewedBothFormats() bool {
	var movie, tv bool
	for _, f := range u.ReviewedFormats {
		switch f {
		case "movie":
			movie = true
		case "tv":
			tv = true
		}
	}
	return movie && tv
}

// AccountAgeDays returns how many whole days ago the account was created.
func (u *User) AccountAgeDays(now time.Time) int {
	return int(now.Sub(u.CreatedAt).Hours() / 24)
}

// Response DTOs

type ProfileResponse struct {
	ID          primitive.ObjectID `json:"id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"displayName"`
	Points      Points             `json:"points"`
	Level       int                `json:"level"`
	Badges      []string           `json:"badges"`
	Streak      Streak             `json:"streak"`
	ReviewCount int                `json:"reviewCount"`
	CreatedAt   time.Time          `json:"createdAt"`
}
