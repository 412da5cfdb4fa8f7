package repository

import (
	"github.com/voyago/identity-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	Identity IdentityRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		Identity: NewIdentityRepository(db),
	}
}
