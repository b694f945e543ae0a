package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ymatsuda/picfeed/storage"
)

func (h *Handlers) PutFavorite(c *gin.Context) {
	if err := storage.PutFavorite(h.db, viewer(c), c.Param("postId")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) DeleteFavorite(c *gin.Context) {
	if err := storage.DeleteFavorite(h.db, viewer(c), c.Param("postId")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
