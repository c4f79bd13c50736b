package reviews

import "context"

// ModerationOutcome is what the handler needs back from the moderation
// pipeline to answer a submission.
type ModerationOutcome struct {
	Removed       bool
	Flagged       bool
	Reason        string
	Warnings      []string
	PointsAwarded int
	Feedback      string
}

// Moderator is the seam to the moderation pipeline. Declared here so this
// package never imports the pipeline; the route wiring adapts the concrete
// service in.
type Moderator interface {
	ProcessSubmission(ctx context.Context, review *Review) (*ModerationOutcome, error)
	ProcessReply(ctx context.Context, review *Review, reply *Reply) (*ModerationOutcome, error)
}
