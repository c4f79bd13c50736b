package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/adist/cinecircle/internal/ai"
	"github.com/adist/cinecircle/internal/config"
	"github.com/adist/cinecircle/internal/features/communities"
	"github.com/adist/cinecircle/internal/features/reviews"
	"github.com/adist/cinecircle/internal/features/rooms"
	"github.com/adist/cinecircle/internal/features/users"
	"github.com/adist/cinecircle/internal/gate"
	"github.com/adist/cinecircle/internal/middleware"
	"github.com/adist/cinecircle/internal/moderation"
	"github.com/adist/cinecircle/internal/scoring"
)

// moderatorAdapter adapts moderation.Service to reviews.Moderator so the
// reviews package never imports the pipeline.
type moderatorAdapter struct {
	service *moderation.Service
}

func (a *moderatorAdapter) ProcessSubmission(ctx context.Context, review *reviews.Review) (*reviews.ModerationOutcome, error) {
	outcome, err := a.service.ProcessSubmission(ctx, review)
	if err != nil {
		return nil, err
	}
	return adaptOutcome(outcome), nil
}

func (a *moderatorAdapter) ProcessReply(ctx context.Context, review *reviews.Review, reply *reviews.Reply) (*reviews.ModerationOutcome, error) {
	outcome, err := a.service.ModerateReply(ctx, review, reply)
	if err != nil {
		return nil, err
	}
	return adaptOutcome(outcome), nil
}

func adaptOutcome(outcome *moderation.Outcome) *reviews.ModerationOutcome {
	return &reviews.ModerationOutcome{
		Removed:       outcome.Removed,
		Flagged:       outcome.Flagged,
		Reason:        outcome.Reason,
		Warnings:      outcome.Warnings,
		PointsAwarded: outcome.PointsAwarded,
		Feedback:      outcome.Feedback,
	}
}

// SetupRoutes wires repositories, the moderation pipeline and all feature
// routes. It returns the moderation service so the caller can schedule the
// batch job.
func SetupRoutes(router *gin.Engine, db *mongo.Database, auditLog *zap.Logger, cfg *config.Config) *moderation.Service {
	api := router.Group("/api/v1")

	usersRepo := users.NewRepository(db)
	reviewsRepo := reviews.NewRepository(db)
	communitiesRepo := communities.NewRepository(db)

	var strategy scoring.Strategy
	if cfg.ScoringStrategy == config.StrategyHeuristic {
		strategy = &scoring.HeuristicStrategy{}
	} else {
		strategy = &scoring.AIAugmentedStrategy{}
	}

	analyzer := ai.NewAnalyzer(ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel))
	auditor := moderation.NewAuditor(auditLog, db)
	moderationService := moderation.NewService(
		reviewsRepo,
		usersRepo,
		analyzer,
		strategy,
		auditor,
		time.Duration(cfg.BatchDelayMs)*time.Millisecond,
	)

	gateService := gate.NewService(reviewsRepo)

	authMiddleware := middleware.Auth(usersRepo, cfg)
	optionalAuth := middleware.OptionalAuth(usersRepo, cfg)

	usersHandler := users.NewHandler(usersRepo)
	reviewsHandler := reviews.NewHandler(reviewsRepo, usersRepo, gateService, &moderatorAdapter{service: moderationService})
	communitiesHandler := communities.NewHandler(communitiesRepo)
	roomsHandler := rooms.NewHandler()

	users.RegisterRoutes(api, usersHandler, authMiddleware)
	reviews.RegisterRoutes(api, reviewsHandler, authMiddleware)
	communities.RegisterRoutes(api, communitiesHandler, authMiddleware, optionalAuth)
	rooms.RegisterRoutes(api, roomsHandler)

	return moderationService
}
