// seed aplica las migraciones, crea el usuario administrador (ADMIN_EMAIL / ADMIN_PASSWORD)
// e importa el catálogo desde un CSV separado por ';'.
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// Columnas: nombre;categoria;precio;costo;stock;descripcion (categoria y descripcion opcionales).
// Sin argumento solo migra y crea el administrador.
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/boutique-api/internal/application/auth"
	"github.com/jhoicas/boutique-api/internal/application/catalog"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/infrastructure/cache"
	"github.com/jhoicas/boutique-api/internal/infrastructure/postgres"
	"github.com/jhoicas/boutique-api/pkg/config"
	"github.com/jhoicas/boutique-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, log.Component("storage")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	if cfg.Admin.Email != "" {
		authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
			Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer,
		})
		created, err := authUC.EnsureUser(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name, entity.RoleAdmin)
		if err != nil {
			log.Fatal().Err(err).Msg("crear usuario administrador")
		}
		log.Info().Str("email", cfg.Admin.Email).Bool("created", created).Msg("usuario administrador")
	}

	if len(os.Args) < 2 {
		log.Info().Msg("sin CSV de catálogo, nada más que hacer")
		return
	}
	f, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := readCatalog(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}

	// La caché del catálogo expira sola (CATALOG_CACHE_TTL_SECONDS); el seed no la toca.
	noop := cache.NewNoop()
	catalogLog := log.Component("catalog")
	im := &importer{
		categories: catalog.NewCategoryUseCase(postgres.NewCategoryRepository(pool), noop, catalogLog),
		products:   catalog.NewProductUseCase(postgres.NewProductRepository(pool), postgres.NewCategoryRepository(pool), noop, catalogLog),
		log:        catalogLog,
	}
	res, err := im.run(ctx, rows)
	if err != nil {
		log.Fatal().Err(err).Int("created", res.Created).Msg("importar catálogo")
	}
	log.Info().Int("rows", len(rows)).Int("created", res.Created).Int("skipped", res.Skipped).Msg("catálogo importado")
}
