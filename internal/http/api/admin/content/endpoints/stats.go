package endpoints

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nbu-it/website-backend/internal/db"
	"github.com/nbu-it/website-backend/internal/http/api"
	"github.com/nbu-it/website-backend/internal/model"
)

// StatsModule mounts the dashboard summary endpoint (token required).
func StatsModule(store db.Store) api.Module {
	ctl := &StatsController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/stats", ctl.stats)
	})
}

type StatsController struct {
	store db.Store
}

// GET /api/stats
//
// One flat record: a total per collection plus a status-filtered count for
// collections with a counted status, keyed e.g. "newsPublished". Recomputed
// from the store on every request.
func (c *StatsController) stats(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	out := gin.H{}
	for _, cfg := range model.Resources {
		total, err := c.store.Count(cfg.Name)
		if err != nil {
			log.Error().Err(err).Str("resource", cfg.Name).Msg("stats count failed")
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not compute stats"}
		}
		out[cfg.Name] = total

		if cfg.CountedStatus == "" {
			continue
		}
		filtered, err := c.store.CountByStatus(cfg.Name, cfg.CountedStatus)
		if err != nil {
			log.Error().Err(err).Str("resource", cfg.Name).Msg("stats status count failed")
			return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not compute stats"}
		}
		out[cfg.Name+capitalize(cfg.CountedStatus)] = filtered
	}
	return out, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
