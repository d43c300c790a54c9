package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"solder/domain"
	"solder/srv"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKey       = "solder:session"
	deploysKeyPrefix = "solder:deploys:"
)

// Ensure Storage implements the srv.Storage interface
var _ srv.Storage = (*Storage)(nil)

type Storage struct {
	Client *redis.Client
}

func NewStorage() *Storage {
	return &Storage{Client: setupClient()}
}

func (s *Storage) CheckConnection(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

func (s *Storage) LoadSession(ctx context.Context) (domain.SessionState, error) {
	stateJSON, err := s.Client.Get(ctx, sessionKey).Result()
	if err == redis.Nil {
		return domain.SessionState{}, nil
	} else if err != nil {
		return domain.SessionState{}, fmt.Errorf("failed to load session: %w", err)
	}

	var state domain.SessionState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return domain.SessionState{}, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return state, nil
}

func (s *Storage) SaveSession(ctx context.Context, state domain.SessionState) error {
	state.Updated = time.Now().UTC()
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := s.Client.Set(ctx, sessionKey, stateJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *Storage) PersistDeploy(ctx context.Context, record domain.DeployRecord) error {
	record.Created = record.Created.UTC()
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal deploy record: %w", err)
	}
	// LPush keeps most-recent-first ordering on read
	if err := s.Client.LPush(ctx, deploysKeyPrefix+record.ProjectName, recordJSON).Err(); err != nil {
		return fmt.Errorf("failed to persist deploy record: %w", err)
	}
	return nil
}

func (s *Storage) GetDeploys(ctx context.Context, projectName string) ([]domain.DeployRecord, error) {
	values, err := s.Client.LRange(ctx, deploysKeyPrefix+projectName, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query deploy records: %w", err)
	}

	records := []domain.DeployRecord{}
	for _, value := range values {
		var record domain.DeployRecord
		if err := json.Unmarshal([]byte(value), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal deploy record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}
