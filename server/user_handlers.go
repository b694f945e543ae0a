package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/ymatsuda/picfeed/storage"
	Logger "github.com/ymatsuda/picfeed/utils/log"
	"golang.org/x/crypto/bcrypt"
)

type RegisterUserRequest struct {
	NickName    string `json:"nickName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	UserImgUrl  string `json:"userImageUrl"`
	ProfileText string `json:"textProfile"`
}

type UserResponse struct {
	Id          string `json:"id"`
	NickName    string `json:"nickName"`
	UserImgUrl  string `json:"userImageUrl"`
	ProfileText string `json:"textProfile"`
}

func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		abortWithError(c, err)
		return
	}

	user, err := storage.CreateUser(h.db, req.NickName, req.Email, string(hash), req.UserImgUrl, req.ProfileText)
	if err != nil {
		abortWithError(c, err)
		return
	}
	Logger.Log.Info("user registered: ", user.Id)
	c.JSON(http.StatusCreated, gin.H{"id": user.Id})
}

func (h *Handlers) GetUserProfile(c *gin.Context) {
	user, err := storage.GetUser(h.db, c.Param("userId"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	var resp UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type PutUserRequest struct {
	NickName    string `json:"nickName" binding:"required"`
	UserImgUrl  string `json:"userImageUrl"`
	ProfileText string `json:"textProfile"`
}

func (h *Handlers) UpdateUserProfile(c *gin.Context) {
	// Users can only edit their own profile.
	if c.Param("userId") != viewer(c) {
		c.JSON(http.StatusForbidden, gin.H{"msg": "cannot edit another user"})
		return
	}
	var req PutUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	if err := storage.UpdateUser(h.db, viewer(c), req.NickName, req.UserImgUrl, req.ProfileText); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	user, err := storage.GetUserByEmail(h.db, req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid email or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid email or password"})
		return
	}

	token, err := h.sessions.Issue(c.Request.Context(), user.Id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "userId": user.Id})
}

func (h *Handlers) Logout(c *gin.Context) {
	token := c.GetHeader("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "empty session token"})
		return
	}
	if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
