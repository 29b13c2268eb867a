package user

import (
	"net/mail"
	"strings"
)

const MaxEmailLen = 254

// Validator - интерфейс для валидации пользовательских данных
type Validator interface {
	ValidateLogin(c Credentials) error
	ValidateEmail(email string) error
}

type CredentialsValidator struct{}

func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{}
}

// ValidateLogin проверяет форму входа до обращения к API
func (v *CredentialsValidator) ValidateLogin(c Credentials) error {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return &DomainError{Err: ErrEmptyFields, Message: MsgEmptyFields, Code: "empty_fields"}
	}
	return v.ValidateEmail(c.Email)
}

// ValidateEmail используется также для восстановления пароля
func (v *CredentialsValidator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return &DomainError{Err: ErrEmptyFields, Message: MsgEmptyFields, Code: "empty_fields"}
	}
	if len(email) > MaxEmailLen {
		return &DomainError{Err: ErrInvalidEmail, Message: MsgInvalidEmail, Code: "invalid_email"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &DomainError{Err: ErrInvalidEmail, Message: MsgInvalidEmail, Code: "invalid_email"}
	}
	return nil
}
