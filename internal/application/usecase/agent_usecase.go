package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/validation"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/masterdata"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

// AgentUseCase casos de uso CRUD para agentes.
type AgentUseCase struct {
	repo repository.AgentRepository
}

// NewAgentUseCase construye el caso de uso.
func NewAgentUseCase(repo repository.AgentRepository) *AgentUseCase {
	return &AgentUseCase{repo: repo}
}

// Create crea un agente con el siguiente código visible.
func (uc *AgentUseCase) Create(ctx context.Context, in dto.AgentRequest) (*dto.AgentResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	agent := &entity.Agent{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		PhoneNo:   in.PhoneNo,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := createWithCode(ctx, uc.repo.LastCode, masterdata.AgentCodeWidth,
		func(code string) { agent.Code = code },
		func(ctx context.Context) error { return uc.repo.Create(ctx, agent) },
	)
	if err != nil {
		return nil, err
	}
	return toAgentResponse(agent), nil
}

// NextCode devuelve el código que recibiría el próximo agente.
func (uc *AgentUseCase) NextCode(ctx context.Context) (string, error) {
	return nextCode(ctx, uc.repo.LastCode, masterdata.AgentCodeWidth)
}

// GetByID obtiene un agente por ID.
func (uc *AgentUseCase) GetByID(ctx context.Context, id string) (*dto.AgentResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return toAgentResponse(a), nil
}

// Update modifica nombre y teléfono.
func (uc *AgentUseCase) Update(ctx context.Context, id string, in dto.AgentRequest) (*dto.AgentResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	a.Name = strings.TrimSpace(in.Name)
	a.PhoneNo = in.PhoneNo
	a.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toAgentResponse(a), nil
}

// Delete elimina un agente sin facturas asociadas.
func (uc *AgentUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List lista agentes ordenados por código.
func (uc *AgentUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.AgentResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AgentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAgentResponse(a))
	}
	return out, nil
}

func toAgentResponse(a *entity.Agent) *dto.AgentResponse {
	return &dto.AgentResponse{ID: a.ID, Code: a.Code, Name: a.Name, PhoneNo: a.PhoneNo}
}
