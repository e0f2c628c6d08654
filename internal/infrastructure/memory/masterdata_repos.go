package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.AgentRepository    = (*AgentRepo)(nil)
	_ repository.BankRepository     = (*BankRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
)

// lastCode mayor código por longitud y luego por texto.
func lastCode(codes []string) string {
	if len(codes) == 0 {
		return ""
	}
	return slices.MaxFunc(codes, func(a, b string) int {
		if c := cmp.Compare(len(a), len(b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

func codeTaken[V any](m map[string]V, id, code string, codeOf func(V) string) bool {
	for otherID, v := range m {
		if otherID != id && codeOf(v) == code {
			return true
		}
	}
	return false
}

// ── Usuarios ────────────────────────────────────────────────────────────────

// UserRepo usuarios en memoria.
type UserRepo struct{ v view }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.write(func(t *tables) error {
		if codeTaken(t.users, u.ID, u.Username, func(x entity.User) string { return x.Username }) {
			return domain.ErrUsernameTaken
		}
		t.users[u.ID] = *u
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.read(func(t *tables) error {
		if u, ok := t.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.v.read(func(t *tables) error {
		for _, u := range t.users {
			if u.Username == username {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	return r.v.write(func(t *tables) error {
		u, ok := t.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		u.PasswordHash = hash
		u.UpdatedAt = time.Now()
		t.users[id] = u
		return nil
	})
}

// Delete deja las facturas del usuario sin autor, como ON DELETE SET NULL.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(t *tables) error {
		if _, ok := t.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		delete(t.users, id)
		for invID, inv := range t.invoices {
			if inv.CreatedBy == id {
				inv.CreatedBy = ""
				t.invoices[invID] = inv
			}
		}
		return nil
	})
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var list []*entity.User
	err := r.v.read(func(t *tables) error {
		for _, u := range t.users {
			list = append(list, &u)
		}
		return nil
	})
	slices.SortFunc(list, func(a, b *entity.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
	return page(list, limit, offset), err
}

// ── Clientes ────────────────────────────────────────────────────────────────

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ v view }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.v.write(func(t *tables) error {
		if codeTaken(t.customers, c.ID, c.Code, func(x entity.Customer) string { return x.Code }) {
			return domain.ErrDuplicate
		}
		t.customers[c.ID] = *c
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.v.read(func(t *tables) error {
		if c, ok := t.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) List(_ context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	needle := strings.ToLower(search)
	var list []*entity.Customer
	err := r.v.read(func(t *tables) error {
		for _, c := range t.customers {
			if search == "" || strings.Contains(strings.ToLower(c.Name), needle) || c.Code == search {
				list = append(list, &c)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b *entity.Customer) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return page(list, limit, offset), err
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.v.write(func(t *tables) error {
		cur, ok := t.customers[c.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = c.Name
		cur.ContactPerson = c.ContactPerson
		cur.PhoneNo = c.PhoneNo
		cur.Address = c.Address
		cur.Area = c.Area
		cur.UpdatedAt = c.UpdatedAt
		t.customers[c.ID] = cur
		return nil
	})
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(t *tables) error {
		if _, ok := t.customers[id]; !ok {
			return domain.ErrNotFound
		}
		for _, inv := range t.invoices {
			if inv.CustomerID == id {
				return domain.ErrConflict
			}
		}
		delete(t.customers, id)
		return nil
	})
}

func (r *CustomerRepo) LastCode(_ context.Context) (string, error) {
	var codes []string
	err := r.v.read(func(t *tables) error {
		for _, c := range t.customers {
			codes = append(codes, c.Code)
		}
		return nil
	})
	return lastCode(codes), err
}

// ── Agentes ─────────────────────────────────────────────────────────────────

// AgentRepo agentes en memoria.
type AgentRepo struct{ v view }

func (r *AgentRepo) Create(_ context.Context, a *entity.Agent) error {
	return r.v.write(func(t *tables) error {
		if codeTaken(t.agents, a.ID, a.Code, func(x entity.Agent) string { return x.Code }) {
			return domain.ErrDuplicate
		}
		t.agents[a.ID] = *a
		return nil
	})
}

func (r *AgentRepo) GetByID(_ context.Context, id string) (*entity.Agent, error) {
	var out *entity.Agent
	err := r.v.read(func(t *tables) error {
		if a, ok := t.agents[id]; ok {
			out = &a
		}
		return nil
	})
	return out, err
}

func (r *AgentRepo) List(_ context.Context, limit, offset int) ([]*entity.Agent, error) {
	var list []*entity.Agent
	err := r.v.read(func(t *tables) error {
		for _, a := range t.agents {
			list = append(list, &a)
		}
		return nil
	})
	slices.SortFunc(list, func(a, b *entity.Agent) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return page(list, limit, offset), err
}

func (r *AgentRepo) Update(_ context.Context, a *entity.Agent) error {
	return r.v.write(func(t *tables) error {
		cur, ok := t.agents[a.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Name = a.Name
		cur.PhoneNo = a.PhoneNo
		cur.UpdatedAt = a.UpdatedAt
		t.agents[a.ID] = cur
		return nil
	})
}

func (r *AgentRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(t *tables) error {
		if _, ok := t.agents[id]; !ok {
			return domain.ErrNotFound
		}
		for _, inv := range t.invoices {
			if inv.AgentID == id {
				return domain.ErrConflict
			}
		}
		delete(t.agents, id)
		return nil
	})
}

func (r *AgentRepo) LastCode(_ context.Context) (string, error) {
	var codes []string
	err := r.v.read(func(t *tables) error {
		for _, a := range t.agents {
			codes = append(codes, a.Code)
		}
		return nil
	})
	return lastCode(codes), err
}

// ── Bancos ──────────────────────────────────────────────────────────────────

// BankRepo bancos en memoria.
type BankRepo struct{ v view }

func (r *BankRepo) Create(_ context.Context, b *entity.Bank) error {
	return r.v.write(func(t *tables) error {
		if codeTaken(t.banks, b.ID, b.Code, func(x entity.Bank) string { return x.Code }) {
			return domain.ErrDuplicate
		}
		t.banks[b.ID] = *b
		return nil
	})
}

func (r *BankRepo) GetByID(_ context.Context, id string) (*entity.Bank, error) {
	var out *entity.Bank
	err := r.v.read(func(t *tables) error {
		if b, ok := t.banks[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *BankRepo) List(_ context.Context, limit, offset int) ([]*entity.Bank, error) {
	var list []*entity.Bank
	err := r.v.read(func(t *tables) error {
		for _, b := range t.banks {
			list = append(list, &b)
		}
		return nil
	})
	slices.SortFunc(list, func(a, b *entity.Bank) int {
		if c := cmp.Compare(a.Acronym, b.Acronym); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return page(list, limit, offset), err
}

func (r *BankRepo) Update(_ context.Context, b *entity.Bank) error {
	return r.v.write(func(t *tables) error {
		cur, ok := t.banks[b.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Acronym = b.Acronym
		cur.Name = b.Name
		cur.UpdatedAt = b.UpdatedAt
		t.banks[b.ID] = cur
		return nil
	})
}

func (r *BankRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(t *tables) error {
		if _, ok := t.banks[id]; !ok {
			return domain.ErrNotFound
		}
		for _, c := range t.cheques {
			if c.BankID == id {
				return domain.ErrConflict
			}
		}
		delete(t.banks, id)
		return nil
	})
}

func (r *BankRepo) LastCode(_ context.Context) (string, error) {
	var codes []string
	err := r.v.read(func(t *tables) error {
		for _, b := range t.banks {
			codes = append(codes, b.Code)
		}
		return nil
	})
	return lastCode(codes), err
}

// ── Productos ───────────────────────────────────────────────────────────────

// ProductRepo productos en memoria.
type ProductRepo struct{ v view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.write(func(t *tables) error {
		if codeTaken(t.products, p.ID, p.Code, func(x entity.Product) string { return x.Code }) ||
			codeTaken(t.products, p.ID, p.ProductCode, func(x entity.Product) string { return x.ProductCode }) {
			return domain.ErrDuplicate
		}
		t.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.read(func(t *tables) error {
		if p, ok := t.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.v.read(func(t *tables) error {
		for _, p := range t.products {
			if status == "" || p.Status == status {
				list = append(list, &p)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b *entity.Product) int {
		if c := cmp.Compare(a.Description, b.Description); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return page(list, limit, offset), err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.write(func(t *tables) error {
		cur, ok := t.products[p.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if codeTaken(t.products, p.ID, p.ProductCode, func(x entity.Product) string { return x.ProductCode }) {
			return domain.ErrDuplicate
		}
		cur.ProductCode = p.ProductCode
		cur.Description = p.Description
		cur.Unit = p.Unit
		cur.Price = p.Price
		cur.Quantity = p.Quantity
		cur.Status = p.Status
		cur.UpdatedAt = p.UpdatedAt
		t.products[p.ID] = cur
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.v.write(func(t *tables) error {
		if _, ok := t.products[id]; !ok {
			return domain.ErrNotFound
		}
		for _, lines := range []map[string]entity.LineRecord{t.orders, t.returns} {
			for _, rec := range lines {
				if rec.ProductID == id {
					return domain.ErrConflict
				}
			}
		}
		delete(t.products, id)
		return nil
	})
}

func (r *ProductRepo) LastCode(_ context.Context) (string, error) {
	var codes []string
	err := r.v.read(func(t *tables) error {
		for _, p := range t.products {
			codes = append(codes, p.Code)
		}
		return nil
	})
	return lastCode(codes), err
}
