package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/ymatsuda/picfeed/feed"
	"github.com/ymatsuda/picfeed/storage"
	Logger "github.com/ymatsuda/picfeed/utils/log"
)

const defaultFeedPageSize = 20

type PostResponse struct {
	Id                 string    `json:"id"`
	ImageUrl           string    `json:"imageUrl"`
	Title              string    `json:"title"`
	Text               string    `json:"text"`
	PostedAt           time.Time `json:"postedAt"`
	FavoriteCount      int64     `json:"favosCount"`
	CommentCount       int64     `json:"commentsCount"`
	ViewerHasFavorited *bool     `json:"favoStatus"`
	AuthorID           string    `json:"userId"`
	AuthorNickName     string    `json:"nickName"`
	AuthorImgUrl       string    `json:"userImageUrl"`
	AuthorProfileText  string    `json:"textProfile"`
}

type FeedResponse struct {
	Posts      []PostResponse `json:"posts"`
	NextCursor *string        `json:"lastPostId"`
}

type CommentResponse struct {
	Id          string    `json:"id"`
	Comment     string    `json:"comment"`
	UserID      string    `json:"commentedUserId"`
	NickName    string    `json:"nickName"`
	UserImgUrl  string    `json:"userImageUrl"`
	CommentedAt time.Time `json:"commentedAt"`
}

// PostDetailResponse reuses the feed's wire names (favosCount, favo) so
// clients read both surfaces with one shape.
type PostDetailResponse struct {
	Id                string            `json:"id"`
	ImageUrl          string            `json:"imageUrl"`
	Title             string            `json:"title"`
	Text              string            `json:"text"`
	PostedAt          time.Time         `json:"postedAt"`
	FavoriteCount     int64             `json:"favosCount"`
	CommentCount      int64             `json:"commentsCount"`
	Favorited         bool              `json:"favo"`
	AuthorID          string            `json:"userId"`
	AuthorNickName    string            `json:"nickName"`
	AuthorImgUrl      string            `json:"userImageUrl"`
	AuthorProfileText string            `json:"textProfile"`
	Comments          []CommentResponse `json:"comments"`
}

// feedQueryParams reads count/lastPostId from the query string. count
// defaults when absent, rejects non-positive values.
func feedQueryParams(c *gin.Context) (int, *string, bool) {
	count := defaultFeedPageSize
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "count must be a positive integer"})
			return 0, nil, false
		}
		count = parsed
	}
	var cursor *string
	if raw := c.Query("lastPostId"); raw != "" {
		cursor = &raw
	}
	return count, cursor, true
}

func (h *Handlers) feedToResponse(page *feed.Page) (*FeedResponse, error) {
	resp := FeedResponse{Posts: []PostResponse{}, NextCursor: page.NextCursor}
	if err := copier.Copy(&resp.Posts, page.Items); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (h *Handlers) getFeed(c *gin.Context, scope feed.Scope) {
	count, cursor, ok := feedQueryParams(c)
	if !ok {
		return
	}

	var viewerID *string
	if sub := viewer(c); sub != "" {
		viewerID = &sub
	}

	page, err := h.engine.GetFeed(c.Request.Context(), scope, viewerID, count, cursor)
	if err != nil {
		Logger.Log.Error("feed query failed: ", err)
		abortWithError(c, err)
		return
	}
	resp, err := h.feedToResponse(page)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) GetGlobalFeed(c *gin.Context) {
	h.getFeed(c, feed.GlobalScope())
}

func (h *Handlers) GetUserFeed(c *gin.Context) {
	h.getFeed(c, feed.UserScope(c.Param("userId")))
}

func (h *Handlers) detailToResponse(detail *feed.PostDetail) (*PostDetailResponse, error) {
	resp := PostDetailResponse{Comments: []CommentResponse{}}
	if err := copier.Copy(&resp, detail); err != nil {
		return nil, err
	}
	// Body rides as "comment" on the wire; copier only matches field names.
	for i, entry := range detail.Comments {
		resp.Comments[i].Comment = entry.Body
	}
	return &resp, nil
}

func (h *Handlers) GetPostDetail(c *gin.Context) {
	detail, err := h.engine.GetPostDetail(c.Request.Context(), c.Param("postId"), viewer(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	resp, err := h.detailToResponse(detail)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type PostPutPostRequest struct {
	ImageUrl string `json:"imageUrl"`
	Title    string `json:"title" binding:"required"`
	Text     string `json:"text"`
}

func (h *Handlers) CreatePost(c *gin.Context) {
	var req PostPutPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	post, err := storage.CreatePost(h.db, viewer(c), req.ImageUrl, req.Title, req.Text)
	if err != nil {
		abortWithError(c, err)
		return
	}
	Logger.Log.Info("post created: ", post.Id)
	c.JSON(http.StatusCreated, gin.H{"id": post.Id})
}

func (h *Handlers) UpdatePost(c *gin.Context) {
	var req PostPutPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	if err := storage.UpdatePost(h.db, c.Param("postId"), viewer(c), req.ImageUrl, req.Title, req.Text); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) DeletePost(c *gin.Context) {
	if err := storage.DeletePost(h.db, c.Param("postId"), viewer(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
