package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var (
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.LoyaltyRepository  = (*LoyaltyRepo)(nil)
	_ repository.UserRepository     = (*UserRepo)(nil)
)

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct{ v view }

func phoneTaken(st *state, phone, exceptID string) bool {
	for id, c := range st.customers {
		if id != exceptID && c.Phone == phone {
			return true
		}
	}
	return false
}

// Create persiste un cliente. El teléfono es único.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.customers[c.ID]; ok || phoneTaken(st, c.Phone, "") {
			return domain.ErrDuplicate
		}
		st.customers[c.ID] = *c
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.v.do(ctx, func(st *state) error {
		if c, ok := st.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID dentro de la transacción.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

// GetByPhone busca por teléfono normalizado.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.v.do(ctx, func(st *state) error {
		for _, c := range st.customers {
			if c.Phone == phone {
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update actualiza nombre, teléfono y dirección; conserva los sellos guardados.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	return r.v.do(ctx, func(st *state) error {
		cur, ok := st.customers[c.ID]
		if !ok {
			return domain.NotFound("cliente", c.ID)
		}
		if phoneTaken(st, c.Phone, c.ID) {
			return domain.ErrDuplicate
		}
		cur.Name = c.Name
		cur.Phone = c.Phone
		cur.Address = c.Address
		cur.UpdatedAt = c.UpdatedAt
		st.customers[c.ID] = cur
		return nil
	})
}

// UpdateStamps guarda el contador de sellos.
func (r *CustomerRepo) UpdateStamps(ctx context.Context, id string, stamps int) error {
	return r.v.do(ctx, func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.NotFound("cliente", id)
		}
		c.LoyaltyStamps = stamps
		st.customers[id] = c
		return nil
	})
}

// List busca por nombre o teléfono y ordena por nombre.
func (r *CustomerRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	err := r.v.do(ctx, func(st *state) error {
		search = strings.ToLower(search)
		var list []entity.Customer
		for _, c := range st.customers {
			if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && !strings.Contains(c.Phone, search) {
				continue
			}
			list = append(list, c)
		}
		sortByName(list, func(c entity.Customer) string { return c.Name })
		for _, c := range paginate(list, limit, offset) {
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

// Delete elimina el cliente. Sus órdenes quedan como mostrador y sus eventos de
// fidelización se eliminan (mismas reglas que las FK en PostgreSQL).
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	return r.v.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if s.CustomerID == id {
				return domain.Conflict("el cliente %s tiene ventas", id)
			}
		}
		delete(st.customers, id)
		for oid, o := range st.orders {
			if o.CustomerID == id {
				o.CustomerID = ""
				st.orders[oid] = o
			}
		}
		kept := st.loyalty[:0:0]
		for _, ev := range st.loyalty {
			if ev.CustomerID != id {
				kept = append(kept, ev)
			}
		}
		st.loyalty = kept
		return nil
	})
}

// LoyaltyRepo implementación en memoria de LoyaltyRepository.
type LoyaltyRepo struct{ v view }

// Append agrega un evento al final del registro.
func (r *LoyaltyRepo) Append(ctx context.Context, ev *entity.LoyaltyEvent) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.customers[ev.CustomerID]; !ok {
			return domain.NotFound("cliente", ev.CustomerID)
		}
		st.loyalty = append(st.loyalty, *ev)
		return nil
	})
}

// ListByCustomer devuelve los eventos del cliente en orden de registro.
func (r *LoyaltyRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.LoyaltyEvent, error) {
	var out []*entity.LoyaltyEvent
	err := r.v.do(ctx, func(st *state) error {
		for _, ev := range st.loyalty {
			if ev.CustomerID == customerID {
				out = append(out, &ev)
			}
		}
		return nil
	})
	return out, err
}

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct{ v view }

// Create persiste un usuario. El email es único.
func (r *UserRepo) Create(ctx context.Context, u *entity.AdminUser) error {
	return r.v.do(ctx, func(st *state) error {
		for _, other := range st.users {
			if other.Email == u.Email {
				return domain.ErrDuplicate
			}
		}
		st.users[u.ID] = *u
		return nil
	})
}

// FindByEmail devuelve (nil, nil) si no existe.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.AdminUser, error) {
	var out *entity.AdminUser
	err := r.v.do(ctx, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// GetByID devuelve (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.AdminUser, error) {
	var out *entity.AdminUser
	err := r.v.do(ctx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}
