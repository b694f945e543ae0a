package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ymatsuda/picfeed/storage"
)

type PostCommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func (h *Handlers) CreateComment(c *gin.Context) {
	var req PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	comment, err := storage.CreateComment(h.db, c.Param("postId"), viewer(c), req.Comment)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": comment.Id})
}

func (h *Handlers) DeleteComment(c *gin.Context) {
	if err := storage.DeleteComment(h.db, c.Param("commentId"), viewer(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
