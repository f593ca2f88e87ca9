package app

import "errors"

var (
	// ErrInvalidInput marks caller-supplied data that fails business
	// validation. Handlers translate it to a 400 response.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is returned on failed login. Deliberately the same
	// for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
