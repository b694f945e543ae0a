package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/ymatsuda/picfeed/feed"
	"github.com/ymatsuda/picfeed/server/middlewares"
	"gorm.io/gorm"
)

// SessionStore is the slice of session.Store the handlers need.
type SessionStore interface {
	Issue(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// Handlers carries the dependencies shared by all route handlers.
type Handlers struct {
	db       *gorm.DB
	engine   *feed.Engine
	sessions SessionStore
}

func NewHandlers(db *gorm.DB, engine *feed.Engine, sessions SessionStore) *Handlers {
	return &Handlers{db: db, engine: engine, sessions: sessions}
}

// RegisterRoutes attaches all API routes. bypassAuth skips the token
// middlewares, handlers then read "sub" directly from the request header;
// used for local debugging and handler tests.
func RegisterRoutes(router *gin.Engine, h *Handlers, bypassAuth bool) {
	authed := middlewares.Token()
	optional := middlewares.OptionalToken()
	if bypassAuth {
		passthrough := func(c *gin.Context) { c.Next() }
		authed = passthrough
		optional = passthrough
	}

	api := router.Group("/api")

	api.POST("/user", h.RegisterUser)
	api.POST("/login", h.Login)
	api.GET("/logout", h.Logout)

	api.GET("/user/:userId", authed, h.GetUserProfile)
	api.PUT("/user/:userId", authed, h.UpdateUserProfile)

	api.GET("/post", optional, h.GetGlobalFeed)
	api.GET("/post/user/:userId", optional, h.GetUserFeed)
	api.GET("/post/detail/:postId", authed, h.GetPostDetail)

	api.POST("/post", authed, h.CreatePost)
	api.PUT("/post/:postId", authed, h.UpdatePost)
	api.DELETE("/post/:postId", authed, h.DeletePost)

	api.POST("/post/:postId/comment", authed, h.CreateComment)
	api.DELETE("/comment/:commentId", authed, h.DeleteComment)

	api.PUT("/post/:postId/favo", authed, h.PutFavorite)
	api.DELETE("/post/:postId/favo", authed, h.DeleteFavorite)
}

// viewer returns the authenticated user id set by the token middleware, ""
// for anonymous requests.
func viewer(c *gin.Context) string {
	return c.Request.Header.Get("sub")
}

// abortWithError maps core error kinds to http statuses. Everything the core
// does not classify is a 500.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, feed.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
	}
	c.Abort()
}
