// exposes the Store interface the CRUD engine and auth gate are built on
package db

import (
	"errors"

	"github.com/nbu-it/website-backend/internal/model"
)

// ErrNotFound marks a lookup whose id has no matching record.
var ErrNotFound = errors.New("record not found")

// Store is a uniform, schema-less view over every content collection plus
// the credential store. Resource names come from model.Resources; passing an
// unknown name is a programming error and surfaces as a plain error, not
// ErrNotFound.
//
// Create and Update perform no schema validation beyond the per-resource
// column allow-list; field values are persisted as supplied.
type Store interface {
	// content collections
	List(resource string) ([]model.Record, error)
	GetByID(resource string, id int) (model.Record, error)
	Create(resource string, fields model.Record) (model.Record, error)
	Update(resource string, id int, fields model.Record) (model.Record, error)
	Delete(resource string, id int) (model.Record, error)
	Count(resource string) (int, error)
	CountByStatus(resource, status string) (int, error)

	// credential store
	GetUserByUsername(username string) (*model.User, error)
	GetUserByCredentials(username, passwordDigest string) (*model.User, error)
	CreateUser(username, passwordDigest, name, role string) (int, error)
	UpdateUserPassword(id int, passwordDigest string) error
	CountUsers() (int, error)
}

// compile-time checks that both backends implement Store
var (
	_ Store = (*pgStore)(nil)
	_ Store = (*jsonStore)(nil)
	_ Store = (*cachedStore)(nil)
)
