package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/margiesol/mew-bad/internal/application/auth"
	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/validation"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/infrastructure/memory"
	pkgjwt "github.com/margiesol/mew-bad/pkg/jwt"
)

const secret = "auth-test-secret"

func newAuth() *auth.AuthUseCase {
	store := memory.New()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "mew-bad"}).
		WithBcryptCost(bcrypt.MinCost)
}

func register(t *testing.T, uc *auth.AuthUseCase, username string) *dto.UserResponse {
	t.Helper()
	u, err := uc.Register(context.Background(), dto.RegisterRequest{Username: username, Password: "secreto123"})
	require.NoError(t, err)
	return u
}

func TestRegister_PrimeraCuentaEsAdmin(t *testing.T) {
	uc := newAuth()
	first := register(t, uc, "Maria")
	second := register(t, uc, "pedro")

	assert.Equal(t, entity.RoleAdmin, first.Role)
	assert.Equal(t, "maria", first.Username, "el usuario se normaliza a minúsculas")
	assert.Equal(t, entity.RoleClerk, second.Role)
}

func TestRegister_UsuarioRepetido(t *testing.T) {
	uc := newAuth()
	register(t, uc, "maria")

	_, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "MARIA", Password: "otroSecreto1"})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegister_ValidacionDeCampos(t *testing.T) {
	uc := newAuth()
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Username: "a", Password: "corta"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestLogin_TokenConRol(t *testing.T) {
	uc := newAuth()
	u := register(t, uc, "maria")

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "maria", Password: "secreto123"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
	assert.Equal(t, "maria", out.User.Username)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuth()
	register(t, uc, "maria")
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "maria", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	uc := newAuth()
	u := register(t, uc, "maria")
	ctx := context.Background()

	err := uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "incorrecta", NewPassword: "nuevoSecreto1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.NoError(t, uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "secreto123", NewPassword: "nuevoSecreto1"}))
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "maria", Password: "nuevoSecreto1"})
	assert.NoError(t, err)
}

func TestDeleteAccount_PropiaOAdmin(t *testing.T) {
	uc := newAuth()
	admin := register(t, uc, "maria")
	clerk := register(t, uc, "pedro")
	other := register(t, uc, "juana")
	ctx := context.Background()

	assert.ErrorIs(t, uc.DeleteAccount(ctx, clerk.ID, entity.RoleClerk, other.ID), domain.ErrForbidden)
	require.NoError(t, uc.DeleteAccount(ctx, clerk.ID, entity.RoleClerk, clerk.ID))
	require.NoError(t, uc.DeleteAccount(ctx, admin.ID, entity.RoleAdmin, other.ID))
	assert.ErrorIs(t, uc.DeleteAccount(ctx, admin.ID, entity.RoleAdmin, other.ID), domain.ErrUserNotFound)
}

func TestCreateAccount_RolInvalido(t *testing.T) {
	uc := newAuth()
	_, err := uc.CreateAccount(context.Background(), "root", "secreto123", "superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := uc.CreateAccount(context.Background(), "root", "secreto123", entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)
}
