// Package auth implementa registro e inicio de sesión. El token emitido lleva
// los roles del usuario: la sesión de cada petición se reconstruye desde el
// token, sin estado ambiente en el servidor.
package auth

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/contratos-api/internal/application/dto"
	"github.com/jhoicas/contratos-api/internal/domain"
	"github.com/jhoicas/contratos-api/internal/domain/entity"
	"github.com/jhoicas/contratos-api/internal/domain/repository"
	"github.com/jhoicas/contratos-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	usuarioRepo repository.UsuarioRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(usuarioRepo repository.UsuarioRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{usuarioRepo: usuarioRepo, jwtCfg: jwtCfg}
}

// Register crea un usuario: hashea el password con bcrypt y persiste. Sin
// roles explícitos queda con el rol Consulta.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	existing, _ := uc.usuarioRepo.FindByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	nombre := in.Nombre
	if nombre == "" {
		nombre = in.Email
	}
	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{entity.RolConsulta}
	}
	usuario := &entity.Usuario{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Nombre:       nombre,
		Roles:        roles,
		Estado:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.usuarioRepo.Create(usuario); err != nil {
		return nil, err
	}
	return toUserResponse(usuario), nil
}

// Login verifica email/password, genera JWT con los roles del usuario y
// retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	usuario, err := uc.usuarioRepo.FindByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if usuario == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if usuario.Estado != "active" {
		return nil, domain.ErrForbidden
	}
	roles, err := uc.usuarioRepo.GetRoles(usuario.ID)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, usuario.ID, roles, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	usuario.Roles = roles
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(usuario),
	}, nil
}

func toUserResponse(u *entity.Usuario) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nombre:    u.Nombre,
		Roles:     u.Roles,
		Estado:    u.Estado,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
