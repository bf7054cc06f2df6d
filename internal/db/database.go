package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/aph138/phoneuser/internal/entity"
)

var ErrNotFound = errors.New("user not found")
var ErrDuplicateKey = errors.New("duplicate key")

// DuplicateKeyError is returned when an insert would break a uniqueness constraint.
// It matches ErrDuplicateKey with errors.Is.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("a user with %s %s already exists", e.Field, e.Value)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

type Database interface {
	// InsertUser validates and stores a new user and returns it with its ID and registration time.
	// Validation errors from entity are returned before anything is written.
	// It returns *DuplicateKeyError if the phone number is already taken.
	InsertUser(context.Context, entity.User) (entity.User, error)

	// FindUserByPhone returns ErrNotFound if no user has the phone number.
	FindUserByPhone(context.Context, string) (entity.User, error)

	// SaveUser gets phone number and return either an error or user ID
	// If the user already exists, it only updates its last login and returns its ID
	SaveUser(context.Context, string) (string, error)

	// SearchUser returns users ordered by registration time, newest first.
	SearchUser(context.Context, ...SearchUserOption) ([]entity.User, error)

	// Close releases the underlying connections.
	Close(context.Context) error
}
