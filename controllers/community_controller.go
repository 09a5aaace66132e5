package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"medbrain/services"
	"medbrain/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

type CommunityController struct {
	Community *services.CommunityService
	Users     *services.UserService
}

func NewCommunityController(community *services.CommunityService, users *services.UserService) *CommunityController {
	return &CommunityController{Community: community, Users: users}
}

type CreatePostInput struct {
	Type           string         `json:"postType" binding:"required,oneof=insight progress support"`
	Content        string         `json:"content" binding:"required"`
	MetricSnapshot datatypes.JSON `json:"optionalMetrics"`
	Anonymous      *bool          `json:"isAnonymous"`
}

func (cc *CommunityController) CreatePost(c *gin.Context) {
	var input CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := cc.Users.ByID(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "user not found")
		return
	}

	anonymous := true // posts are anonymous unless explicitly opted out
	if input.Anonymous != nil {
		anonymous = *input.Anonymous
	}

	post, err := cc.Community.CreatePost(c.Request.Context(), user, input.Type, input.Content, input.MetricSnapshot, anonymous)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "failed to create post")
		return
	}
	utils.OK(c, http.StatusCreated, post)
}

func (cc *CommunityController) Feed(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	postType := c.Query("postType")

	feed, err := cc.Community.Feed(c.Request.Context(), page, limit, postType)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "failed to load feed")
		return
	}
	utils.OK(c, http.StatusOK, feed)
}

func (cc *CommunityController) GetPost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	post, err := cc.Community.GetPost(c.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "failed to load post")
		return
	}
	utils.OK(c, http.StatusOK, post)
}

type CommentInput struct {
	Content string `json:"content" binding:"required"`
}

func (cc *CommunityController) AddComment(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := cc.Users.ByID(c.Request.Context(), c.GetUint("userID"))
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "user not found")
		return
	}

	comment, err := cc.Community.AddComment(c.Request.Context(), postID, user, input.Content)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "failed to add comment")
		return
	}
	utils.OK(c, http.StatusCreated, comment)
}

type ReactionInput struct {
	Type string `json:"type" binding:"required,oneof=heart support celebrate"`
}

func (cc *CommunityController) SetReaction(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	var input ReactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	reactions, err := cc.Community.SetReaction(c.Request.Context(), postID, c.GetUint("userID"), input.Type)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "failed to save reaction")
		return
	}
	utils.OK(c, http.StatusOK, reactions)
}

func (cc *CommunityController) RemoveReaction(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		return
	}

	if err := cc.Community.RemoveReaction(c.Request.Context(), postID, c.GetUint("userID")); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			utils.Fail(c, http.StatusNotFound, err.Error())
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "failed to remove reaction")
		return
	}
	utils.OK(c, http.StatusOK, gin.H{"removed": true})
}

func postIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid post id")
		return 0, false
	}
	return uint(id), true
}
