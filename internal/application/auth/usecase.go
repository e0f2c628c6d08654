package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/margiesol/mew-bad/internal/application/dto"
	"github.com/margiesol/mew-bad/internal/application/usecase"
	"github.com/margiesol/mew-bad/internal/application/validation"
	"github.com/margiesol/mew-bad/internal/domain"
	"github.com/margiesol/mew-bad/internal/domain/entity"
	"github.com/margiesol/mew-bad/internal/domain/repository"
	"github.com/margiesol/mew-bad/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de cuentas: registro, login, cambio de contraseña y baja.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
	cost     int
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg, cost: bcrypt.DefaultCost}
}

// WithBcryptCost ajusta el costo de bcrypt (los tests usan bcrypt.MinCost).
func (uc *AuthUseCase) WithBcryptCost(cost int) *AuthUseCase {
	uc.cost = cost
	return uc
}

// Register crea una cuenta. La primera cuenta del sistema es admin; las demás, clerk.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	username := strings.ToLower(strings.TrimSpace(in.Username))
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	role := entity.RoleClerk
	users, err := uc.userRepo.List(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		role = entity.RoleAdmin
	}
	return uc.create(ctx, username, in.Password, role)
}

// CreateAccount crea una cuenta con rol explícito (CLI de arranque).
func (uc *AuthUseCase) CreateAccount(ctx context.Context, username, password, role string) (*dto.UserResponse, error) {
	if role != entity.RoleAdmin && role != entity.RoleClerk {
		return nil, domain.ErrInvalidInput
	}
	if err := validation.Struct(dto.RegisterRequest{Username: username, Password: password}); err != nil {
		return nil, err
	}
	return uc.create(ctx, strings.ToLower(strings.TrimSpace(username)), password, role)
}

func (uc *AuthUseCase) create(ctx context.Context, username, password, role string) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrUsernameTaken
		}
		return nil, err
	}
	return usecase.EntityToUserResponse(user), nil
}

// Login verifica usuario/contraseña, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(in.Username)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *usecase.EntityToUserResponse(user),
	}, nil
}

// ChangePassword cambia la contraseña de userID tras verificar la actual.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), uc.cost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, userID, string(hash))
}

// DeleteAccount borra targetID. Un usuario puede borrar su propia cuenta; un admin, cualquiera.
func (uc *AuthUseCase) DeleteAccount(ctx context.Context, actorID, actorRole, targetID string) error {
	if actorID != targetID && actorRole != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	user, err := uc.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.userRepo.Delete(ctx, targetID)
}
