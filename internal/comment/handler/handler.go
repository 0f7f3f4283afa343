package handler

import (
	"errors"
	"net/http"

	"github.com/commently/comment-service/internal/comment"
	"github.com/commently/comment-service/internal/comment/service"
	"github.com/commently/comment-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type createRequest struct {
	HashTags []string `json:"hashTags"`
	Mentions []string `json:"mentions"`
	Text     string   `json:"text" binding:"required"`
	UserID   string   `json:"userId" binding:"required"`
}

// updateRequest is a subset of the comment fields; absent fields stay untouched.
type updateRequest struct {
	HashTags []string `json:"hashTags"`
	Mentions []string `json:"mentions"`
	Text     *string  `json:"text"`
}

// RegisterCommentRoutes wires the comment API onto the engine.
func RegisterCommentRoutes(r *gin.Engine, svc *service.Service) {
	g := r.Group("/comment")

	g.POST("/create", func(c *gin.Context) {
		var req createRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": statusError, "message": "Invalid request body", "data": nil})
			return
		}
		created, err := svc.Create(c.Request.Context(), service.CreateInput{
			Text:     req.Text,
			UserID:   req.UserID,
			HashTags: req.HashTags,
			Mentions: req.Mentions,
		})
		if err != nil {
			if errors.Is(err, service.ErrInvalidUser) {
				c.JSON(http.StatusNotFound, gin.H{"status": statusError, "message": "Invalid userId", "data": nil})
				return
			}
			fail(c, "Error creating comment", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": statusSuccess, "message": "Comment created successfully", "data": created})
	})

	g.GET("/get/:userId", func(c *gin.Context) {
		res, err := svc.ByUser(c.Request.Context(), c.Param("userId"), c.Query("page"), c.Query("limit"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"status": statusError, "message": "No comment found", "data": nil})
				return
			}
			fail(c, "Error fetching comments", err)
			return
		}
		pageOK(c, res)
	})

	g.GET("/get", func(c *gin.Context) {
		r, err := svc.Rankings(c.Request.Context())
		if err != nil {
			fail(c, "Error fetching comments", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "message": "Comments fetched successfully", "data": r})
	})

	g.GET("/get-comments", func(c *gin.Context) {
		res, err := svc.Search(c.Request.Context(), c.Query("search"), c.Query("page"), c.Query("limit"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"status": statusError, "message": "No comment found", "data": nil})
				return
			}
			fail(c, "Error fetching comments", err)
			return
		}
		pageOK(c, res)
	})

	g.PATCH("/update/:id/user/:userId", func(c *gin.Context) {
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": statusError, "message": "Invalid request body", "data": nil})
			return
		}
		updated, err := svc.Update(c.Request.Context(), c.Param("id"), c.Param("userId"), comment.Update{
			Text:     req.Text,
			HashTags: req.HashTags,
			Mentions: req.Mentions,
		})
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"status": statusError, "message": "No comment found", "data": nil})
				return
			}
			fail(c, "Error updating comment", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "message": "Comment updated successfully", "data": updated})
	})

	g.DELETE("/delete/:id/user/:userId", func(c *gin.Context) {
		deleted, err := svc.SoftDelete(c.Request.Context(), c.Param("id"), c.Param("userId"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"status": statusError, "message": "No comment found", "data": nil})
				return
			}
			fail(c, "Error deleting comment", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": statusSuccess, "message": "Comment deleted successfully", "data": deleted})
	})
}

func pageOK(c *gin.Context, res *comment.PageResult) {
	c.JSON(http.StatusOK, gin.H{
		"status":  statusSuccess,
		"message": "Comments fetched successfully",
		"data":    res.Comments,
		"meta": gin.H{
			"totalPages":    res.Page.TotalPages,
			"currentPage":   res.Page.Page,
			"totalComments": res.Page.Total,
		},
	})
}

// fail answers with a generic message; the real error is logged, never returned.
func fail(c *gin.Context, msg string, err error) {
	logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"status": statusError, "message": msg, "data": nil})
}
