package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nbu-it/website-backend/internal/http/middleware"
	"github.com/nbu-it/website-backend/internal/model"
)

// APIError is what handlers return on failure; the resolver turns it into a
// JSON {"error": message} body with the given status code.
type APIError struct {
	Code    int
	Message string
}

// Created wraps a handler result that should respond 201 instead of 200.
type Created struct {
	Body any
}

type HandlerFunc func(ctx *gin.Context) (any, *APIError)
type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)

// ResolveEndpoint adapts a public handler to gin.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		writeResult(ctx, result, apiErr)
	}
}

// ResolveEndpointWithAuth adapts an authenticated handler; the middleware
// must already have resolved the current user.
func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		result, apiErr := h(ctx, user)
		writeResult(ctx, result, apiErr)
	}
}

func writeResult(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr != nil {
		ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
		return
	}
	if created, ok := result.(Created); ok {
		ctx.JSON(http.StatusCreated, created.Body)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Controller is the surface Modules mount endpoints on. PUBLIC_* verbs skip
// the current-user requirement; the rest expect TokenMiddleware on the
// group.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) PUBLIC_GET(path string, h HandlerFunc) {
	c.Group.GET(path, ResolveEndpoint(h))
}

func (c *Controller) PUBLIC_POST(path string, h HandlerFunc) {
	c.Group.POST(path, ResolveEndpoint(h))
}

func (c *Controller) GET(path string, h HandlerFuncWithAuth) {
	c.Group.GET(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) POST(path string, h HandlerFuncWithAuth) {
	c.Group.POST(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) PUT(path string, h HandlerFuncWithAuth) {
	c.Group.PUT(path, ResolveEndpointWithAuth(h))
}

func (c *Controller) DELETE(path string, h HandlerFuncWithAuth) {
	c.Group.DELETE(path, ResolveEndpointWithAuth(h))
}
