package util

import (
	"errors"
	"regexp"
	"strings"
)

var regionPattern = regexp.MustCompile(`^[a-zA-Z\s]{2,}$`)

// ValidatePassword verifica requisitos mínimos de senha.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("senha deve ter pelo menos 8 caracteres")
	}
	return nil
}

// ValidateRegion valida wilaya/commune: apenas letras e espaços, mínimo 2.
func ValidateRegion(value, field string) error {
	if !regionPattern.MatchString(value) {
		return errors.New(field + " deve conter apenas letras e espaços, mínimo 2 caracteres")
	}
	return nil
}

// ValidateOrgName exige nome de exibição com pelo menos 3 caracteres.
func ValidateOrgName(name string) error {
	if len(name) < 3 {
		return errors.New("nome deve ter pelo menos 3 caracteres")
	}
	return nil
}

// RequireString garante string não vazia.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(field + " obrigatório")
	}
	return nil
}
