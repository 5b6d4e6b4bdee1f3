package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenTypeAccess identifica tokens de acesso de curta duração.
	TokenTypeAccess = "access"
	// TokenTypeRefresh identifica tokens usados apenas para renovação.
	TokenTypeRefresh = "refresh"
)

var (
	// ErrTokenExpired indica token com prazo vencido.
	ErrTokenExpired = errors.New("token expirado")
	// ErrTokenInvalid indica assinatura ou payload inválidos.
	ErrTokenInvalid = errors.New("token inválido")
)

// Claims representa a identidade da organização embutida no JWT.
// Os campos de perfil são uma cópia tirada no momento da emissão.
type Claims struct {
	OrgID     int64  `json:"id"`
	Username  string `json:"username"`
	Wilaya    string `json:"wilaya"`
	Commune   string `json:"commune"`
	Name      string `json:"name"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenInput carrega os campos da organização copiados para o token.
type TokenInput struct {
	ID       int64
	Username string
	Wilaya   string
	Commune  string
	Name     string
}

// JWTManager encapsula emissão e validação de tokens HS256.
type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTManager cria o gerenciador com segredo e TTLs configurados.
func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// GenerateAccessToken emite JWT de acesso com validade curta.
func (m *JWTManager) GenerateAccessToken(org TokenInput) (string, error) {
	return m.generate(org, TokenTypeAccess, m.accessTTL)
}

// GenerateRefreshToken emite JWT de renovação com validade longa.
func (m *JWTManager) GenerateRefreshToken(org TokenInput) (string, error) {
	return m.generate(org, TokenTypeRefresh, m.refreshTTL)
}

func (m *JWTManager) generate(org TokenInput, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		OrgID:     org.ID,
		Username:  org.Username,
		Wilaya:    org.Wilaya,
		Commune:   org.Commune,
		Name:      org.Name,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(org.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseAndValidate verifica assinatura e expiração de um token de acesso.
// Falhas são classificadas em ErrTokenExpired ou ErrTokenInvalid; nenhum
// outro erro escapa para entrada controlada pelo cliente.
func (m *JWTManager) ParseAndValidate(tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseRefreshToken valida um token de renovação e devolve as claims.
func (m *JWTManager) ParseRefreshToken(tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *JWTManager) parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.OrgID <= 0 {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
