// This file contains the repository aggregate and the health interface
// shared by the SQLite and PostgreSQL backends. The backend packages
// provide matching constructors; main wires the one selected by
// configuration.
package repository

import (
	"context"
)

// Repositories holds all repository instances.
type Repositories struct {
	Users UserRepository
	Posts PostRepository
}

// DatabaseHealth is an interface for database health checks.
// Both backend DB wrappers satisfy it; the health endpoint and the
// graceful-shutdown path depend on it rather than a concrete driver.
type DatabaseHealth interface {
	Ping(ctx context.Context) error
	Close() error
}
