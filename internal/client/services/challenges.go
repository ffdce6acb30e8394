package services

import (
	"context"
	"fmt"

	"github.com/tracetrail/tracetrail/internal/client/models"
)

type ChallengeService interface {
	List(ctx context.Context) ([]models.Challenge, error)
	Get(ctx context.Context, id int64) (*models.Challenge, error)
	Start(ctx context.Context, id int64) (*models.ChallengeProgress, error)
	Complete(ctx context.Context, id int64) (*models.ChallengeProgress, error)
	Progress(ctx context.Context) ([]models.ChallengeProgress, error)
	Badges(ctx context.Context) ([]models.Badge, error)
	Leaderboard(ctx context.Context) (*models.Leaderboard, error)
}

type challengeService struct {
	api API
}

func NewChallengeService(api API) ChallengeService {
	return &challengeService{api: api}
}

func (s *challengeService) List(ctx context.Context) ([]models.Challenge, error) {
	var out []models.Challenge
	if err := s.api.Get(ctx, "/challenges", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *challengeService) Get(ctx context.Context, id int64) (*models.Challenge, error) {
	var c models.Challenge
	if err := s.api.Get(ctx, fmt.Sprintf("/challenges/%d", id), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *challengeService) Start(ctx context.Context, id int64) (*models.ChallengeProgress, error) {
	var p models.ChallengeProgress
	if err := s.api.Post(ctx, fmt.Sprintf("/challenges/%d/start", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *challengeService) Complete(ctx context.Context, id int64) (*models.ChallengeProgress, error) {
	var p models.ChallengeProgress
	if err := s.api.Post(ctx, fmt.Sprintf("/challenges/%d/complete", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *challengeService) Progress(ctx context.Context) ([]models.ChallengeProgress, error) {
	var out []models.ChallengeProgress
	if err := s.api.Get(ctx, "/challenges/progress", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *challengeService) Badges(ctx context.Context) ([]models.Badge, error) {
	var out []models.Badge
	if err := s.api.Get(ctx, "/challenges/badges", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *challengeService) Leaderboard(ctx context.Context) (*models.Leaderboard, error) {
	var l models.Leaderboard
	if err := s.api.Get(ctx, "/challenges/leaderboard", nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
