// Package history keeps each user's past generations in a per-user collection
// and keeps subscribers up to date with the full, newest-first list.
package history

import (
	"context"
	"errors"
	"fmt"

	"reelarchitect/models"
)

// Scope identifies one user's collection inside one application.
type Scope struct {
	AppID  string
	UserID string
}

// CollectionPath is the logical document path of the scope's collection.
func (s Scope) CollectionPath() string {
	return fmt.Sprintf("artifacts/%s/users/%s/scripts", s.AppID, s.UserID)
}

// Valid reports whether both halves of the scope are set.
func (s Scope) Valid() bool {
	return s.AppID != "" && s.UserID != ""
}

// Store is a per-user document collection of history entries.
// Append assigns ID and CreatedAt. Delete of an unknown id is not an error.
type Store interface {
	Append(ctx context.Context, scope Scope, entry models.HistoryEntry) (models.HistoryEntry, error)
	List(ctx context.Context, scope Scope) ([]models.HistoryEntry, error)
	Delete(ctx context.Context, scope Scope, id string) error
}

// Expirer is implemented by stores whose credentials can lapse. Once Expired
// reports true the store cannot be used until the user signs in again.
type Expirer interface {
	Expired() bool
}

var (
	ErrStoreWriteFailed  = errors.New("history append failed")
	ErrStoreDeleteFailed = errors.New("history delete failed")
	ErrStoreReadFailed   = errors.New("history read failed")
	ErrInvalidScope      = errors.New("history scope requires app and user id")
)

// StoreError wraps a backend failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	switch target {
	case ErrStoreWriteFailed:
		return e.Op == opAppend
	case ErrStoreDeleteFailed:
		return e.Op == opDelete
	case ErrStoreReadFailed:
		return e.Op == opList
	}
	return false
}

const (
	opAppend = "append"
	opList   = "list"
	opDelete = "delete"
)

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

var errEmptyInsert = errors.New("insert returned no rows")
