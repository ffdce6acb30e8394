package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tracetrail/tracetrail/internal/client/client"
	"github.com/tracetrail/tracetrail/internal/client/models"
)

type ConnectionService interface {
	List(ctx context.Context) ([]models.SocialConnection, error)
	Add(ctx context.Context, data models.AddConnectionData) (*models.SocialConnection, error)
	Delete(ctx context.Context, id int64) error
	Sync(ctx context.Context, id int64) (*models.SyncStatus, error)
	Update(ctx context.Context, id int64, settings models.ConnectionSettings) (*models.SocialConnection, error)
}

type connectionService struct {
	api API
}

func NewConnectionService(api API) ConnectionService {
	return &connectionService{api: api}
}

func connectionPath(id int64) string {
	return fmt.Sprintf("/connections/%d", id)
}

func (s *connectionService) List(ctx context.Context) ([]models.SocialConnection, error) {
	var out []models.SocialConnection
	if err := s.api.Get(ctx, "/connections", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *connectionService) Add(ctx context.Context, data models.AddConnectionData) (*models.SocialConnection, error) {
	data.Platform = models.Platform(strings.ToLower(strings.TrimSpace(string(data.Platform))))
	if !data.Platform.Valid() {
		return nil, client.LocalError(fmt.Sprintf("Unsupported platform %q", data.Platform))
	}
	data.PlatformUsername = strings.TrimSpace(data.PlatformUsername)
	if data.PlatformUsername == "" {
		return nil, client.LocalError("Platform username is required")
	}

	var c models.SocialConnection
	if err := s.api.Post(ctx, "/connections", data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *connectionService) Delete(ctx context.Context, id int64) error {
	return s.api.Delete(ctx, connectionPath(id))
}

func (s *connectionService) Sync(ctx context.Context, id int64) (*models.SyncStatus, error) {
	var st models.SyncStatus
	if err := s.api.Post(ctx, connectionPath(id)+"/sync", nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *connectionService) Update(ctx context.Context, id int64, settings models.ConnectionSettings) (*models.SocialConnection, error) {
	var c models.SocialConnection
	if err := s.api.Put(ctx, connectionPath(id), settings, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
