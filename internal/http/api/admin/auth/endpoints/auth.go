package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nbu-it/website-backend/internal/auth"
	"github.com/nbu-it/website-backend/internal/db"
	"github.com/nbu-it/website-backend/internal/http/api"
	"github.com/nbu-it/website-backend/internal/http/api/admin/auth/packets"
	"github.com/nbu-it/website-backend/internal/model"
)

// AuthPublicModule mounts the login endpoint.
func AuthPublicModule(secret string, store db.Store) api.Module {
	ctl := newAccountManager(secret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/login", ctl.login)
	})
}

// AuthSessionModule mounts password rotation (token required).
func AuthSessionModule(secret string, store db.Store) api.Module {
	ctl := newAccountManager(secret, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/change-password", ctl.changePassword)
	})
}

type AccountManager struct {
	secret string
	store  db.Store
}

func newAccountManager(secret string, store db.Store) *AccountManager {
	return &AccountManager{secret: secret, store: store}
}

// POST /api/login
//
// The error body is identical for unknown usernames and wrong passwords so
// the endpoint cannot be used to enumerate accounts.
func (a *AccountManager) login(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	digest := auth.HashPassword(request.Password)
	user, err := a.store.GetUserByCredentials(request.Username, digest)
	if err != nil {
		log.Warn().Str("username", request.Username).Msg("failed login attempt")
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "invalid username or password"}
	}

	token, err := auth.GenerateToken(user.Username, user.Password, a.secret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return packets.LoginResponse{
		Success: true,
		Token:   token,
		User: packets.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Name:     user.Name,
			Role:     user.Role,
		},
	}, nil
}

// POST /api/change-password
//
// The current password is re-verified against a fresh store lookup, not the
// user snapshot the middleware resolved, so the check always runs against
// current backing state. Rotating the digest invalidates every token issued
// before this call; the response carries a fresh one.
func (a *AccountManager) changePassword(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	current, err := a.store.GetUserByUsername(user.Username)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load account"}
	}
	if auth.HashPassword(request.CurrentPassword) != current.Password {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "current password is incorrect"}
	}

	newDigest := auth.HashPassword(request.NewPassword)
	if err := a.store.UpdateUserPassword(current.ID, newDigest); err != nil {
		log.Error().Err(err).Int("user", current.ID).Msg("failed to update password")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update password"}
	}

	token, err := auth.GenerateToken(current.Username, newDigest, a.secret)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not generate token"}
	}

	return packets.ChangePasswordResponse{Success: true, Token: token}, nil
}
