package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/boutique-api/internal/application/auth"
	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/infrastructure/memory"
	"github.com/jhoicas/boutique-api/pkg/jwt"
)

const secret = "test-secret-de-32-caracteres-min!"

func newAuth() (*auth.AuthUseCase, *memory.Store) {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "boutique-api"}), store
}

func TestEnsureUser_Idempotente(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	created, err := uc.EnsureUser(ctx, " Admin@Tienda.co ", "clave-segura", "Admin", entity.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = uc.EnsureUser(ctx, "admin@tienda.co", "otra-clave-123", "Admin", entity.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)

	// la contraseña original sigue vigente
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@tienda.co", Password: "clave-segura"})
	require.NoError(t, err)
}

func TestEnsureUser_Validaciones(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	_, err := uc.EnsureUser(ctx, "a@b.co", "corta", "", entity.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.EnsureUser(ctx, "a@b.co", "suficientemente-larga", "", "root")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin_TokenConRol(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	_, err := uc.EnsureUser(ctx, "vendedora@tienda.co", "clave-segura", "Vendedora", entity.RoleSeller)
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "VENDEDORA@tienda.co", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSeller, res.User.Role)

	userID, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
	assert.Equal(t, entity.RoleSeller, role)
}

func TestLogin_Rechazos(t *testing.T) {
	uc, store := newAuth()
	ctx := context.Background()
	_, err := uc.EnsureUser(ctx, "admin@tienda.co", "clave-segura", "Admin", entity.RoleAdmin)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(ctx, &entity.AdminUser{
		ID: "inactivo", Email: "baja@tienda.co", PasswordHash: string(hash),
		Name: "Baja", Role: entity.RoleSeller, Active: false, CreatedAt: time.Now(),
	}))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "admin@tienda.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@tienda.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "baja@tienda.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
