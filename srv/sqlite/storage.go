package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"solder/domain"
	"solder/srv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("solder/srv/sqlite")

// Ensure Storage implements the srv.Storage interface
var _ srv.Storage = (*Storage)(nil)

type Storage struct {
	db *sql.DB
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) CheckConnection(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// LoadSession returns the persisted session state, or a zero state if none
// was ever saved.
func (s *Storage) LoadSession(ctx context.Context) (domain.SessionState, error) {
	ctx, span := tracer.Start(ctx, "Storage.LoadSession")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "SELECT"),
	)

	var stateJSON string
	err := s.db.QueryRowContext(ctx, "SELECT state FROM sessions WHERE id = 1").Scan(&stateJSON)
	if err == sql.ErrNoRows {
		return domain.SessionState{}, nil
	} else if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.SessionState{}, fmt.Errorf("failed to load session: %w", err)
	}

	var state domain.SessionState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		return domain.SessionState{}, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return state, nil
}

// SaveSession replaces the persisted session state.
func (s *Storage) SaveSession(ctx context.Context, state domain.SessionState) error {
	ctx, span := tracer.Start(ctx, "Storage.SaveSession")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "INSERT"),
	)

	state.Updated = time.Now().UTC()
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO sessions (id, state, updated) VALUES (1, ?, ?)",
		string(stateJSON), state.Updated,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// PersistDeploy inserts a deploy history record.
func (s *Storage) PersistDeploy(ctx context.Context, record domain.DeployRecord) error {
	ctx, span := tracer.Start(ctx, "Storage.PersistDeploy")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("project_name", record.ProjectName),
	)

	record.Created = record.Created.UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO deploys (id, project_name, network, source, contract_id, created)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.Id, record.ProjectName, record.Network, record.Source, record.ContractId, record.Created)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to persist deploy record: %w", err)
	}
	return nil
}

// GetDeploys returns a project's deploy history, most recent first.
func (s *Storage) GetDeploys(ctx context.Context, projectName string) ([]domain.DeployRecord, error) {
	ctx, span := tracer.Start(ctx, "Storage.GetDeploys")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("project_name", projectName),
	)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_name, network, source, contract_id, created
		FROM deploys WHERE project_name = ? ORDER BY created DESC
	`, projectName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query deploy records: %w", err)
	}
	defer rows.Close()

	records := []domain.DeployRecord{}
	for rows.Next() {
		var record domain.DeployRecord
		if err := rows.Scan(&record.Id, &record.ProjectName, &record.Network, &record.Source, &record.ContractId, &record.Created); err != nil {
			return nil, fmt.Errorf("failed to scan deploy record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deploy records: %w", err)
	}
	return records, nil
}
