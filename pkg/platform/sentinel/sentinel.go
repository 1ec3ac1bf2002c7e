// Package sentinel declares the errors stores use to report infrastructure
// facts. Stores return these (optionally wrapped); services translate them into
// coded domain errors. Validation failures never use sentinels - those are
// raised directly as domain errors.
package sentinel

import "errors"

var (
	// ErrNotFound: the record does not exist in the store.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyUsed: a unique value (email, CNPJ, CPF, phone) is taken, or a
	// duplicate pending application exists.
	ErrAlreadyUsed = errors.New("already used")
	// ErrUnavailable: the backing service is temporarily unreachable.
	ErrUnavailable = errors.New("unavailable")
)
