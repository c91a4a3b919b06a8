package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"agri-advisor/internal/domain/entity"
	"agri-advisor/internal/domain/repository"
)

// Advisor combines the rule evaluator with an AI recommendation.
type Advisor struct {
	assembler *Assembler
	lands     repository.LandRepo
	usage     repository.UsageMeter
	logger    *zap.Logger
}

func NewAdvisor(assembler *Assembler, lands repository.LandRepo, usage repository.UsageMeter, logger *zap.Logger) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Advisor{assembler: assembler, lands: lands, usage: usage, logger: logger}
}

// Recommend requires ph and moisture; temperature and desired crop are optional.
func (a *Advisor) Recommend(ctx context.Context, req entity.RecommendationRequest) (*entity.Recommendation, error) {
	if req.PH == nil || req.Moisture == nil {
		return nil, fmt.Errorf("%w: ph and moisture are required", entity.ErrInvalidRequest)
	}
	reading := entity.SoilReading{PH: *req.PH, Moisture: *req.Moisture, Temperature: req.Temperature}
	rec, _ := a.recommend(ctx, reading, req.DesiredCrop)
	return rec, nil
}

// AdviseLand runs the same flow over a stored land's soil parameters.
func (a *Advisor) AdviseLand(ctx context.Context, landID string) (*entity.Recommendation, error) {
	land, err := a.lands.GetByID(ctx, landID)
	if err != nil {
		return nil, err
	}
	rec, answer := a.recommend(ctx, land.Reading(), land.Crop)
	if answer.Source == entity.SourceAI && a.usage != nil {
		if err := a.usage.Increment(ctx, land.UserID, answer.Tokens); err != nil {
			a.logger.Warn("usage increment failed", zap.String("user_id", land.UserID), zap.Error(err))
		}
	}
	return rec, nil
}

func (a *Advisor) recommend(ctx context.Context, r entity.SoilReading, crop string) (*entity.Recommendation, Answer) {
	answer := a.assembler.Recommend(ctx, r, strings.TrimSpace(crop))
	return &entity.Recommendation{
		Advisories:     Evaluate(r),
		Recommendation: answer.Text,
	}, answer
}
