package db

import (
	"github.com/rs/zerolog/log"

	"github.com/nbu-it/website-backend/internal/auth"
)

// EnsureDefaultAdmin creates the default admin account when the credential
// store is empty, so a fresh deployment can be logged into at all.
func EnsureDefaultAdmin(store Store) error {
	n, err := store.CountUsers()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := store.CreateUser("admin", auth.HashPassword("password"), "Administrator", "admin"); err != nil {
		return err
	}
	log.Warn().Msg("seeded default admin account (admin/password), change the password after first login")
	return nil
}
