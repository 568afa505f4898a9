package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nbu-it/website-backend/internal/config"
	"github.com/nbu-it/website-backend/internal/db"
	"github.com/nbu-it/website-backend/internal/http/api"
	authapi "github.com/nbu-it/website-backend/internal/http/api/admin/auth/endpoints"
	contentapi "github.com/nbu-it/website-backend/internal/http/api/admin/content/endpoints"
	"github.com/nbu-it/website-backend/internal/http/middleware"
	"github.com/nbu-it/website-backend/internal/model"
	"github.com/nbu-it/website-backend/internal/storage"
)

// RegisterRoutes sets up all application routes.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, storageSystem storage.Storage) {
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			middleware.TokenHeader,
		},
		AllowCredentials: false,
	}))

	publicModules := []api.Module{
		authapi.AuthPublicModule(cfg.TokenSecret, store),
	}
	for _, res := range model.Resources {
		publicModules = append(publicModules, contentapi.ResourcePublicModule(res, store))
	}
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	}, publicModules...)

	adminModules := []api.Module{
		authapi.AuthSessionModule(cfg.TokenSecret, store),
		contentapi.StatsModule(store),
		contentapi.UploadModule(storageSystem, cfg.MaxUploadSize),
	}
	for _, res := range model.Resources {
		adminModules = append(adminModules, contentapi.ResourceAdminModule(res, store))
	}
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: cfg.TokenSecret,
		Store:     store,
	}, adminModules...)

	// locally stored uploads; behind Spaces the CDN serves them
	if !cfg.UseSpaces {
		r.Static("/uploads", cfg.UploadDir)
	}
}
