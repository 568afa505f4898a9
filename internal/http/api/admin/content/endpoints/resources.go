package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/nbu-it/website-backend/internal/db"
	"github.com/nbu-it/website-backend/internal/http/api"
	"github.com/nbu-it/website-backend/internal/http/api/admin/content/packets"
	"github.com/nbu-it/website-backend/internal/model"
)

// ResourceController is the CRUD engine: one instance per collection,
// parametrized only by the resource config. It never inspects field
// semantics beyond the id key.
type ResourceController struct {
	store db.Store
	cfg   model.ResourceConfig
}

func newResourceController(cfg model.ResourceConfig, store db.Store) *ResourceController {
	return &ResourceController{store: store, cfg: cfg}
}

// ResourcePublicModule mounts the unauthenticated read endpoints for one
// collection.
func ResourcePublicModule(cfg model.ResourceConfig, store db.Store) api.Module {
	ctl := newResourceController(cfg, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/"+cfg.Name, ctl.list)
		c.PUBLIC_GET("/"+cfg.Name+"/:id", ctl.get)
	})
}

// ResourceAdminModule mounts the token-protected write endpoints for one
// collection.
func ResourceAdminModule(cfg model.ResourceConfig, store db.Store) api.Module {
	ctl := newResourceController(cfg, store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/"+cfg.Name, ctl.create)
		c.PUT("/"+cfg.Name+"/:id", ctl.update)
		c.DELETE("/"+cfg.Name+"/:id", ctl.remove)
	})
}

// recordID treats non-numeric path ids as absent records, not parse errors.
func recordID(ctx *gin.Context) (int, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

func (c *ResourceController) list(ctx *gin.Context) (any, *api.APIError) {
	items, err := c.store.List(c.cfg.Name)
	if err != nil {
		log.Error().Err(err).Str("resource", c.cfg.Name).Msg("list failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list " + c.cfg.Name}
	}
	return items, nil
}

func (c *ResourceController) get(ctx *gin.Context) (any, *api.APIError) {
	id, ok := recordID(ctx)
	if !ok {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}

	item, err := c.store.GetByID(c.cfg.Name, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	if err != nil {
		log.Error().Err(err).Str("resource", c.cfg.Name).Int("id", id).Msg("get failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch record"}
	}
	return item, nil
}

func (c *ResourceController) create(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var fields model.Record
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	item, err := c.store.Create(c.cfg.Name, fields)
	if err != nil {
		log.Error().Err(err).Str("resource", c.cfg.Name).Msg("create failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create record"}
	}
	return api.Created{Body: item}, nil
}

func (c *ResourceController) update(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, ok := recordID(ctx)
	if !ok {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}

	var fields model.Record
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	item, err := c.store.Update(c.cfg.Name, id, fields)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	if err != nil {
		log.Error().Err(err).Str("resource", c.cfg.Name).Int("id", id).Msg("update failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update record"}
	}
	return item, nil
}

func (c *ResourceController) remove(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, ok := recordID(ctx)
	if !ok {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}

	item, err := c.store.Delete(c.cfg.Name, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "not found"}
	}
	if err != nil {
		log.Error().Err(err).Str("resource", c.cfg.Name).Int("id", id).Msg("delete failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete record"}
	}
	return packets.DeleteResponse{Success: true, Deleted: item}, nil
}
