package ports

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn retorna error se hace rollback y nada de lo escrito queda visible.
// Las implementaciones reintentan fn cuando el error es transitorio (domain.ErrTransient),
// por lo que fn no debe tener efectos fuera de los repositorios.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.TxRepos) error) error
}
