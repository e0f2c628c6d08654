package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

var _ repository.AgentRepository = (*AgentRepo)(nil)

// AgentRepo implementación de AgentRepository.
type AgentRepo struct {
	q Querier
}

// NewAgentRepository construye el adaptador.
func NewAgentRepository(q Querier) *AgentRepo {
	return &AgentRepo{q: q}
}

func scanAgent(row rowScanner) (*entity.Agent, error) {
	var (
		a     entity.Agent
		phone *string
	)
	if err := row.Scan(&a.ID, &a.Code, &a.Name, &phone, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.PhoneNo = derefString(phone)
	return &a, nil
}

func (r *AgentRepo) Create(ctx context.Context, agent *entity.Agent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO agents (id, code, name, phone_no, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		agent.ID, agent.Code, agent.Name, nullIfEmpty(agent.PhoneNo), agent.CreatedAt, agent.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

func (r *AgentRepo) GetByID(ctx context.Context, id string) (*entity.Agent, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	a, err := scanAgent(r.q.QueryRow(ctx,
		`SELECT id, code, name, phone_no, created_at, updated_at FROM agents WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agent: %w", err)
	}
	return a, nil
}

func (r *AgentRepo) List(ctx context.Context, limit, offset int) ([]*entity.Agent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, code, name, phone_no, created_at, updated_at
		FROM agents ORDER BY name, code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var list []*entity.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AgentRepo) Update(ctx context.Context, agent *entity.Agent) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE agents SET name = $2, phone_no = $3, updated_at = $4 WHERE id = $1`,
		agent.ID, agent.Name, nullIfEmpty(agent.PhoneNo), agent.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update agent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AgentRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.q, "agents", id)
}

func (r *AgentRepo) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.q, "agents")
}
