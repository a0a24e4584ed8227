package dto

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var requestValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New()
})

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *CredentialsRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r CredentialsRequest) Validate() error {
	return requestValidator().Struct(r)
}
