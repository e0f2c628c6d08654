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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, code, name, contact_person, phone_no, address, area, created_at, updated_at`

func scanCustomer(row rowScanner) (*entity.Customer, error) {
	var (
		c                       entity.Customer
		contact, phone, address *string
	)
	err := row.Scan(&c.ID, &c.Code, &c.Name, &contact, &phone, &address, &c.Area, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ContactPerson = derefString(contact)
	c.PhoneNo = derefString(phone)
	c.Address = derefString(address)
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	query := `INSERT INTO customers (` + customerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		customer.ID, customer.Code, customer.Name, nullIfEmpty(customer.ContactPerson), nullIfEmpty(customer.PhoneNo),
		nullIfEmpty(customer.Address), customer.Area, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	c, err := scanCustomer(r.q.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// List lista clientes por nombre; search filtra por nombre o código.
func (r *CustomerRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR code = $1
		ORDER BY name, code
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos del cliente; el código no cambia.
func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	const query = `
		UPDATE customers
		SET name = $2, contact_person = $3, phone_no = $4, address = $5, area = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		customer.ID, customer.Name, nullIfEmpty(customer.ContactPerson), nullIfEmpty(customer.PhoneNo),
		nullIfEmpty(customer.Address), customer.Area, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra el cliente; ErrConflict si alguna factura lo referencia.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.q, "customers", id)
}

// LastCode devuelve el mayor código asignado o "" si no hay clientes.
func (r *CustomerRepo) LastCode(ctx context.Context) (string, error) {
	return lastCode(ctx, r.q, "customers")
}

// deleteByID borra una fila de datos maestros por ID.
func deleteByID(ctx context.Context, q Querier, table, id string) error {
	tag, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		if isFKViolation(err) {
			return fmt.Errorf("%s in use: %w", table, domain.ErrConflict)
		}
		return fmt.Errorf("delete %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// lastCode ordena por longitud y luego por texto para que "10000" quede después de "9999".
func lastCode(ctx context.Context, q Querier, table string) (string, error) {
	var code string
	err := q.QueryRow(ctx, `SELECT code FROM `+table+` ORDER BY length(code) DESC, code DESC LIMIT 1`).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last %s code: %w", table, err)
	}
	return code, nil
}
