package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/application/ports"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// initialBackoff espera antes del primer reintento; se duplica en cada intento.
const initialBackoff = 50 * time.Millisecond

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL READ COMMITTED.
// Las filas que deben serializarse se bloquean con SELECT ... FOR UPDATE desde los repos.
type TxRunner struct {
	pool    *pgxpool.Pool
	retries int
	backoff time.Duration
	log     zerolog.Logger
}

// NewTxRunner construye el runner. retries es el número de reintentos ante errores transitorios.
func NewTxRunner(pool *pgxpool.Pool, retries int, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, retries: retries, backoff: initialBackoff, log: log}
}

// Run abre una transacción, ejecuta fn con repos atados a ella y hace Commit o Rollback.
// Si el error es transitorio (serialización, deadlock, conexión) se repite la transacción completa.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	return retry(ctx, r.retries, r.backoff, r.log, func() error {
		return r.runOnce(ctx, fn)
	})
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return translate(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(TxRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translate(err, "commit transaction")
	}
	return nil
}

// TxRepos arma el juego de repositorios transaccionales sobre q.
func TxRepos(q Querier) repository.TxRepos {
	return repository.TxRepos{
		Orders:    NewOrderRepository(q),
		Sales:     NewSaleRepository(q),
		Payments:  NewPaymentRepository(q),
		Products:  NewProductRepository(q),
		Customers: NewCustomerRepository(q),
		Loyalty:   NewLoyaltyRepository(q),
		Reversals: NewReversalRepository(q),
	}
}

// retry ejecuta op hasta retries+1 veces mientras el error sea domain.ErrTransient,
// con espera exponencial entre intentos. Cancelar ctx corta la espera.
func retry(ctx context.Context, retries int, backoff time.Duration, log zerolog.Logger, op func() error) error {
	delay := backoff
	for attempt := 0; ; attempt++ {
		err := op()
		if err == nil || !domain.IsRetryable(err) || attempt >= retries {
			return err
		}
		log.Warn().Err(err).Int("attempt", attempt+1).Dur("backoff", delay).Msg("transacción transitoria, reintentando")
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
		delay *= 2
	}
}
