package identity

import (
	"errors"
	"time"
)

var (
	// ErrValidation marca entrada malformada corrigível pelo cliente.
	ErrValidation = errors.New("entrada inválida")
	// ErrUsernameTaken indica username já cadastrado.
	ErrUsernameTaken = errors.New("username já cadastrado")
	// ErrInvalidCredentials indica falha na autenticação. A mesma falha é
	// devolvida para username desconhecido e senha errada.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrNotFound indica organização inexistente.
	ErrNotFound = errors.New("organização não encontrada")
)

// Organization representa o cliente registrado na plataforma.
// Password guarda sempre o registro cifrado, nunca texto puro.
type Organization struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Wilaya    string    `json:"wilaya"`
	Commune   string    `json:"commune"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterInput contém os campos obrigatórios do cadastro.
type RegisterInput struct {
	Username string
	Password string
	Wilaya   string
	Commune  string
	Name     string
}

// UpdateInput descreve atualização parcial; nil significa campo intocado.
type UpdateInput struct {
	Username *string
	Password *string
	Wilaya   *string
	Commune  *string
	Name     *string
}

// LoginResult agrega organização autenticada e o par de tokens.
type LoginResult struct {
	Organization *Organization
	AccessToken  string
	RefreshToken string
}
