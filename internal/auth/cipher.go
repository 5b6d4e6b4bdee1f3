package auth

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
)

// KeySize é o tamanho da chave AES-256 em bytes.
const KeySize = 32

var (
	// ErrCipherInvalid é retornado quando o registro cifrado está malformado
	// ou não decifra com a chave do processo.
	ErrCipherInvalid = errors.New("registro cifrado inválido")
	// ErrInvalidKey indica chave com tamanho incorreto.
	ErrInvalidKey = errors.New("chave deve ter 32 bytes")
)

// Cipher encripta senhas em repouso com AES-256-CBC.
// A chave é definida na inicialização e tratada como imutável; cada chamada
// de Encrypt usa um IV aleatório novo, gravado junto ao registro.
type Cipher struct {
	key []byte
}

// NewCipher cria o cifrador a partir de uma chave binária de 32 bytes.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	owned := make([]byte, KeySize)
	copy(owned, key)
	return &Cipher{key: owned}, nil
}

// NewCipherFromHex cria o cifrador a partir da chave em hexadecimal.
func NewCipherFromHex(keyHex string) (*Cipher, error) {
	key, err := hex.DecodeString(strings.TrimSpace(keyHex))
	if err != nil {
		return nil, fmt.Errorf("chave hexadecimal inválida: %w", err)
	}
	return NewCipher(key)
}

// LoadOrCreateKey carrega a chave hexadecimal do arquivo indicado.
// Quando o arquivo não existe, gera uma chave nova e a persiste com modo 0600,
// garantindo que senhas cifradas continuem legíveis após reinícios.
func LoadOrCreateKey(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		key, decErr := hex.DecodeString(strings.TrimSpace(string(raw)))
		if decErr != nil || len(key) != KeySize {
			return nil, fmt.Errorf("arquivo de chave %s corrompido", path)
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("ler chave: %w", err)
	}

	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("gerar chave: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("persistir chave: %w", err)
	}
	return key, nil
}

// Encrypt cifra o texto e devolve registro no formato <iv_hex>:<cifra_hex>.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// Decrypt recupera o texto original de um registro <iv_hex>:<cifra_hex>.
func (c *Cipher) Decrypt(record string) (string, error) {
	ivHex, cipherHex, found := strings.Cut(record, ":")
	if !found {
		return "", ErrCipherInvalid
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrCipherInvalid
	}
	data, err := hex.DecodeString(cipherHex)
	if err != nil || len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", ErrCipherInvalid
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, data)

	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", ErrCipherInvalid
	}
	return string(plain), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrCipherInvalid
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize || padding > len(data) {
		return nil, ErrCipherInvalid
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, ErrCipherInvalid
		}
	}
	return data[:len(data)-padding], nil
}
