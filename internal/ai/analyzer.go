package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/adist/cinecircle/internal/pkg/logger"
)

// Neutral fallbacks used whenever a provider call fails. Moderation must
// keep working without the model, so failures degrade to these documented
// values instead of propagating.
const (
	FallbackQualityScore       = 0.70
	FallbackQualityPoints      = 70
	FallbackAlignment          = 0.80
	FallbackAuthenticityPoints = 40
	FallbackContentQuality     = 70
)

// QualityAnalysis grades how well-written and substantive a review is.
type QualityAnalysis struct {
	Score    float64 `json:"score"`  // 0..1
	Points   int     `json:"points"` // 0..100
	Fallback bool    `json:"-"`
}

// AuthenticityAnalysis grades whether the numeric rating matches the text's
// sentiment.
type AuthenticityAnalysis struct {
	Alignment float64 `json:"alignment"` // 0..1
	Points    int     `json:"points"`
	Authentic bool    `json:"authentic"`
	Fallback  bool    `json:"-"`
}

// EngagementAnalysis grades the discussion the review generated.
type EngagementAnalysis struct {
	Points   int  `json:"points"`
	Fallback bool `json:"-"`
}

// ContentAnalysis is the safety verdict over the review text.
type ContentAnalysis struct {
	IsSpam         bool   `json:"isSpam"`
	IsOffensive    bool   `json:"isOffensive"`
	HasSpoiler     bool   `json:"hasSpoiler"`
	IsConstructive bool   `json:"isConstructive"`
	IsInsightful   bool   `json:"isInsightful"`
	IsLowEffort    bool   `json:"isLowEffort"`
	QualityScore   int    `json:"qualityScore"` // 0..100
	Rationale      string `json:"rationale"`
	Fallback       bool   `json:"-"`
}

// Analyzer runs the individual model analyses. Each method is one
// independent provider call with its own fallback: one failing analysis
// never blocks the others.
type Analyzer struct {
	client Client
}

func NewAnalyzer(client Client) *Analyzer {
	return &Analyzer{client: client}
}

// AnalyzeQuality scores writing quality on a 0..1 scale plus 0..100 points.
func (a *Analyzer) AnalyzeQuality(ctx context.Context, content string) QualityAnalysis {
	prompt := fmt.Sprintf(`Rate the quality of this movie/TV review. Respond with JSON only:
{"score": <0.0-1.0>, "points": <0-100>}

Review:
%s`, content)

	var result QualityAnalysis
	if err := a.call(ctx, "quality", prompt, &result); err != nil {
		return QualityAnalysis{Score: FallbackQualityScore, Points: FallbackQualityPoints, Fallback: true}
	}
	result.Score = clamp01(result.Score)
	return result
}

// AnalyzeAuthenticity checks that the numeric rating fits the text.
func (a *Analyzer) AnalyzeAuthenticity(ctx context.Context, content string, rating int) AuthenticityAnalysis {
	prompt := fmt.Sprintf(`The author rated this title %d/10. Judge whether the review text matches that rating. Respond with JSON only:
{"alignment": <0.0-1.0>, "points": <0-100>, "authentic": <true|false>}

Review:
%s`, rating, content)

	var result AuthenticityAnalysis
	if err := a.call(ctx, "authenticity", prompt, &result); err != nil {
		return AuthenticityAnalysis{
			Alignment: FallbackAlignment,
			Points:    FallbackAuthenticityPoints,
			Authentic: true,
			Fallback:  true,
		}
	}
	result.Alignment = clamp01(result.Alignment)
	return result
}

// AnalyzeEngagement scores the replies a review has drawn. With no replies
// there is nothing to grade and no call is made.
func (a *Analyzer) AnalyzeEngagement(ctx context.Context, replies []string) EngagementAnalysis {
	if len(replies) == 0 {
		return EngagementAnalysis{}
	}

	prompt := fmt.Sprintf(`Score how much genuine discussion these replies to a review represent. Respond with JSON only:
{"points": <0-100>}

Replies:
%s`, strings.Join(replies, "\n---\n"))

	var result EngagementAnalysis
	if err := a.call(ctx, "engagement", prompt, &result); err != nil {
		return EngagementAnalysis{Fallback: true}
	}
	return result
}

// AnalyzeContent is the safety pass: spam, offensive language, unmarked
// spoilers, and tone signals used for bonuses/penalties.
func (a *Analyzer) AnalyzeContent(ctx context.Context, content string) ContentAnalysis {
	prompt := fmt.Sprintf(`Moderate this movie/TV review. Respond with JSON only:
{"isSpam": bool, "isOffensive": bool, "hasSpoiler": bool, "isConstructive": bool, "isInsightful": bool, "isLowEffort": bool, "qualityScore": <0-100>, "rationale": "<short>"}

Review:
%s`, content)

	var result ContentAnalysis
	if err := a.call(ctx, "content", prompt, &result); err != nil {
		// Safe defaults; the regex detectors still run regardless.
		return ContentAnalysis{QualityScore: FallbackContentQuality, Fallback: true}
	}
	return result
}

// GenerateFeedback asks the model for a one-line note to the author. Purely
// cosmetic; failures return an empty string.
func (a *Analyzer) GenerateFeedback(ctx context.Context, content string) string {
	prompt := fmt.Sprintf(`Write one short encouraging sentence of feedback for the author of this review. Plain text, no JSON.

Review:
%s`, content)

	text, err := a.client.Complete(ctx, prompt)
	if err != nil {
		logger.Warn("ai feedback call failed: %v", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func (a *Analyzer) call(ctx context.Context, analysis, prompt string, v interface{}) error {
	text, err := a.client.Complete(ctx, prompt)
	if err != nil {
		logger.Warn("ai %s call failed, using fallback: %v", analysis, err)
		return err
	}
	if err := ExtractJSON(text, v); err != nil {
		logger.Warn("ai %s output unparsable, using fallback: %v", analysis, err)
		return err
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
