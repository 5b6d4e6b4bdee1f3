package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/urbanbyte/desempenho/internal/auth"
	"github.com/urbanbyte/desempenho/internal/util"
)

// Repository descreve o armazenamento exigido pelo serviço de identidade.
type Repository interface {
	Create(ctx context.Context, input RegisterInput) (*Organization, error)
	GetByUsername(ctx context.Context, username string) (*Organization, error)
	GetByID(ctx context.Context, id int64) (*Organization, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*Organization, error)
}

// Service concentra cadastro, autenticação e renovação de tokens.
type Service struct {
	repo   Repository
	cipher *auth.Cipher
	jwt    *auth.JWTManager
}

// NewService cria novo serviço de identidade.
func NewService(repo Repository, cipher *auth.Cipher, jwtMgr *auth.JWTManager) *Service {
	return &Service{repo: repo, cipher: cipher, jwt: jwtMgr}
}

// JWT expõe o gerenciador de tokens (útil em middlewares).
func (s *Service) JWT() *auth.JWTManager {
	return s.jwt
}

// Register valida, cifra a senha e persiste a nova organização.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Organization, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Wilaya = strings.TrimSpace(input.Wilaya)
	input.Commune = strings.TrimSpace(input.Commune)
	input.Name = strings.TrimSpace(input.Name)

	if err := validateRegister(input); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByUsername(ctx, input.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	encrypted, err := s.cipher.Encrypt(input.Password)
	if err != nil {
		return nil, fmt.Errorf("cifrar senha: %w", err)
	}
	input.Password = encrypted

	return s.repo.Create(ctx, input)
}

// Login autentica por decifrar-e-comparar e emite o par de tokens.
// Username desconhecido e senha errada produzem exatamente o mesmo erro.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username e senha são obrigatórios", ErrValidation)
	}

	org, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	plain, err := s.cipher.Decrypt(org.Password)
	if err != nil {
		log.Error().Err(err).Int64("org_id", org.ID).Msg("senha armazenada ilegível")
		return nil, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(plain), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}

	access, err := s.jwt.GenerateAccessToken(tokenInput(org))
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwt.GenerateRefreshToken(tokenInput(org))
	if err != nil {
		return nil, err
	}

	return &LoginResult{Organization: org, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh valida o token de renovação e emite novo token de acesso.
// A organização é relida do banco para que atualizações de perfil se
// propaguem, em vez de confiar nas claims possivelmente defasadas.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	org, err := s.repo.GetByID(ctx, claims.OrgID)
	if err != nil {
		return "", err
	}

	return s.jwt.GenerateAccessToken(tokenInput(org))
}

// Update aplica atualização parcial; senha informada é recifrada.
func (s *Service) Update(ctx context.Context, orgID int64, input UpdateInput) (*Organization, error) {
	if input.Username == nil && input.Password == nil && input.Wilaya == nil &&
		input.Commune == nil && input.Name == nil {
		return nil, fmt.Errorf("%w: nenhum campo para atualizar", ErrValidation)
	}

	if err := validateUpdate(&input); err != nil {
		return nil, err
	}

	if input.Password != nil {
		encrypted, err := s.cipher.Encrypt(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("cifrar senha: %w", err)
		}
		input.Password = &encrypted
	}

	return s.repo.Update(ctx, orgID, input)
}

func tokenInput(org *Organization) auth.TokenInput {
	return auth.TokenInput{
		ID:       org.ID,
		Username: org.Username,
		Wilaya:   org.Wilaya,
		Commune:  org.Commune,
		Name:     org.Name,
	}
}

func validateRegister(input RegisterInput) error {
	checks := []error{
		util.RequireString(input.Username, "username"),
		util.RequireString(input.Password, "senha"),
		util.ValidatePassword(input.Password),
		util.ValidateRegion(input.Wilaya, "wilaya"),
		util.ValidateRegion(input.Commune, "commune"),
		util.ValidateOrgName(input.Name),
	}
	for _, err := range checks {
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return nil
}

func validateUpdate(input *UpdateInput) error {
	if input.Username != nil {
		trimmed := strings.TrimSpace(*input.Username)
		if err := util.RequireString(trimmed, "username"); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		input.Username = &trimmed
	}
	if input.Password != nil {
		if err := util.ValidatePassword(*input.Password); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if input.Wilaya != nil {
		if err := util.ValidateRegion(strings.TrimSpace(*input.Wilaya), "wilaya"); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if input.Commune != nil {
		if err := util.ValidateRegion(strings.TrimSpace(*input.Commune), "commune"); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if input.Name != nil {
		if err := util.ValidateOrgName(strings.TrimSpace(*input.Name)); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	return nil
}

// Get devolve a organização atual pelo identificador.
func (s *Service) Get(ctx context.Context, orgID int64) (*Organization, error) {
	return s.repo.GetByID(ctx, orgID)
}
