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

var _ repository.BankRepository = (*BankRepo)(nil)

// BankRepo implementación de BankRepository.
type BankRepo struct {
	q Querier
}

// NewBankRepository construye el adaptador.
func NewBankRepository(q Querier) *BankRepo {
	return &BankRepo{q: q}
}

func (r *BankRepo) Create(ctx context.Context, bank *entity.Bank) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO banks (id, code, acronym, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		bank.ID, bank.Code, bank.Acronym, bank.Name, bank.CreatedAt, bank.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bank: %w", err)
	}
	return nil
}

func (r *BankRepo) GetByID(ctx context.Context, id string) (*entity.Bank, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var b entity.Bank
	err := r.q.QueryRow(ctx,
		`SELECT id, code, acronym, name, created_at, updated_at FROM banks WHERE id = $1`, id,
	).Scan(&b.ID, &b.Code, &b.Acronym, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bank: %w", err)
	}
	return &b, nil
}

func (r *BankRepo) List(ctx context.Context, limit, offset int) ([]*entity.Bank, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, code, acronym, name, created_at, updated_at
		FROM banks ORDER BY acronym, code LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	defer rows.Close()

	var list []*entity.Bank
	for rows.Next() {
		var b entity.Bank
		if err := rows.Scan(&b.ID, &b.Code, &b.Acronym, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (r *BankRepo) Update(ctx context.Context, bank *entity.Bank) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE banks SET acronym = $2, name = $3, updated_at = $4 WHERE id = $1`,
		bank.ID, bank.Acronym, bank.Name, bank.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update bank: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BankRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.q, "banks", id)
}

func (r *BankRepo) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.q, "banks")
}
