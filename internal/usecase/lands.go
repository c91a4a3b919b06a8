package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"agri-advisor/internal/domain/entity"
	"agri-advisor/internal/domain/repository"
)

type LandService struct {
	lands repository.LandRepo
	users repository.UserRepo
	now   func() time.Time
}

func NewLandService(lands repository.LandRepo, users repository.UserRepo) *LandService {
	return &LandService{lands: lands, users: users, now: time.Now}
}

func (s *LandService) Create(ctx context.Context, userID string, in entity.LandInput) (*entity.Land, error) {
	if err := validateLand(in); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	l := &entity.Land{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
	}
	applyLandInput(l, in, now)
	if err := s.lands.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LandService) Get(ctx context.Context, id string) (*entity.Land, error) {
	return s.lands.GetByID(ctx, id)
}

func (s *LandService) List(ctx context.Context, userID string) ([]*entity.Land, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.lands.ListByUser(ctx, userID)
}

// Update replaces every editable field of the land.
func (s *LandService) Update(ctx context.Context, id string, in entity.LandInput) (*entity.Land, error) {
	if err := validateLand(in); err != nil {
		return nil, err
	}
	l, err := s.lands.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyLandInput(l, in, s.now().UTC())
	if err := s.lands.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LandService) Delete(ctx context.Context, id string) error {
	return s.lands.Delete(ctx, id)
}

func applyLandInput(l *entity.Land, in entity.LandInput, now time.Time) {
	l.Name = strings.TrimSpace(in.Name)
	l.Location = strings.TrimSpace(in.Location)
	l.AreaAcres = in.AreaAcres
	l.SoilPH = *in.SoilPH
	l.Moisture = *in.Moisture
	l.Temperature = in.Temperature
	l.Crop = strings.TrimSpace(in.Crop)
	l.UpdatedAt = now
}

func validateLand(in entity.LandInput) error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", entity.ErrInvalidRequest)
	case in.AreaAcres < 0:
		return fmt.Errorf("%w: area_acres must not be negative", entity.ErrInvalidRequest)
	case in.SoilPH == nil || in.Moisture == nil:
		return fmt.Errorf("%w: soil_ph and moisture are required", entity.ErrInvalidRequest)
	case *in.SoilPH < 0 || *in.SoilPH > 14:
		return fmt.Errorf("%w: soil_ph must be between 0 and 14", entity.ErrInvalidRequest)
	case *in.Moisture < 0 || *in.Moisture > 100:
		return fmt.Errorf("%w: moisture must be between 0 and 100", entity.ErrInvalidRequest)
	}
	return nil
}
