package user

import "errors"

var (
	ErrEmptyFields  = errors.New("email and password are required")
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidAuth  = errors.New("invalid credentials")
)

// Mensagens exibidas ao usuário.
const (
	MsgEmptyFields  = "Por favor, preencha todos os campos"
	MsgInvalidEmail = "Email inválido"
	MsgLoginFailed  = "Erro ao fazer login"
)

// DomainError carries the message shown to the user next to the cause.
type DomainError struct {
	Err     error
	Message string
	Code    string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}
