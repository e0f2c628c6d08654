package repository

import (
	"context"

	"github.com/margiesol/mew-bad/internal/domain/entity"
)

// AgentRepository define el puerto de persistencia para Agent.
type AgentRepository interface {
	Create(ctx context.Context, agent *entity.Agent) error
	GetByID(ctx context.Context, id string) (*entity.Agent, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Agent, error)
	Update(ctx context.Context, agent *entity.Agent) error
	Delete(ctx context.Context, id string) error
	LastCode(ctx context.Context) (string, error)
}
