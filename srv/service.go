package srv

import (
	"context"

	"solder/domain"
)

// SessionStorage persists the account and network selection the UI carries
// between visits. Explicitly injected; never accessed as ambient global
// state.
type SessionStorage interface {
	LoadSession(ctx context.Context) (domain.SessionState, error)
	SaveSession(ctx context.Context, state domain.SessionState) error
}

// DeployStorage records deploy history per project.
type DeployStorage interface {
	PersistDeploy(ctx context.Context, record domain.DeployRecord) error
	GetDeploys(ctx context.Context, projectName string) ([]domain.DeployRecord, error)
}

type Storage interface {
	SessionStorage
	DeployStorage

	CheckConnection(ctx context.Context) error
}
