package http

import (
	"errors"
	"net/http"
	"time"

	"piazza/internal/entity"
	"piazza/internal/usecase"
	"piazza/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Title              string       `json:"title" binding:"required"`
	Topic              entity.Topic `json:"topic" binding:"required,oneof=Tech Politics Sports Health"`
	Body               string       `json:"body" binding:"required"`
	ExpirationDuration *int         `json:"expirationDuration"`
}

type UpdatePostRequest struct {
	Title          *string       `json:"title"`
	Topic          *entity.Topic `json:"topic"`
	Body           *string       `json:"body"`
	ExpirationTime *time.Time    `json:"expirationTime"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreatePost godoc
// @Summary      Create a new post
// @Description  Create a post on one of the fixed topics. expirationDuration is in minutes and defaults to 15.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePostRequest true "Post data"
// @Success      201  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	ownerID := c.GetString("user_id")

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	post, err := h.postUseCase.CreatePost(ownerID, req.Title, req.Topic, req.Body, req.ExpirationDuration)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidDuration) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid expiration duration"})
			return
		}
		if errors.Is(err, entity.ErrInvalidTopic) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid topic"})
			return
		}
		h.logger.Error("Failed to create post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ListPosts godoc
// @Summary      List Live posts
// @Description  List every Live post with reactor and commenter usernames resolved. Public endpoint.
// @Tags         posts
// @Produce      json
// @Success      200  {array}  entity.Post
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postUseCase.ListLive()
	if err != nil {
		h.logger.Error("Failed to list posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary      Get a Live post by ID
// @Description  Expired posts are not served here; they are only visible through the expired-by-topic listing.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postUseCase.GetLivePost(c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
			return
		}
		h.logger.Error("Failed to get post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListPostsByTopic godoc
// @Summary      List Live posts by topic
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        topic path string true "Topic" Enums(Tech, Politics, Sports, Health)
// @Success      200  {array}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/topic/{topic} [get]
func (h *PostHandler) ListPostsByTopic(c *gin.Context) {
	posts, err := h.postUseCase.ListLiveByTopic(entity.Topic(c.Param("topic")))
	if err != nil {
		if errors.Is(err, entity.ErrInvalidTopic) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid topic"})
			return
		}
		h.logger.Error("Failed to list posts by topic: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// MostActivePost godoc
// @Summary      Most active Live post of a topic
// @Description  The Live post with the most likes; ties broken by the most dislikes.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        topic path string true "Topic" Enums(Tech, Politics, Sports, Health)
// @Success      200  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/most-active/{topic} [get]
func (h *PostHandler) MostActivePost(c *gin.Context) {
	post, err := h.postUseCase.MostActiveByTopic(entity.Topic(c.Param("topic")))
	if err != nil {
		if errors.Is(err, entity.ErrInvalidTopic) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid topic"})
			return
		}
		if errors.Is(err, entity.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "There are no posts on this topic yet..."})
			return
		}
		h.logger.Error("Failed to get most active post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, post)
}

// ListExpiredPostsByTopic godoc
// @Summary      List Expired posts by topic
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        topic path string true "Topic" Enums(Tech, Politics, Sports, Health)
// @Success      200  {array}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/expired/topic/{topic} [get]
func (h *PostHandler) ListExpiredPostsByTopic(c *gin.Context) {
	posts, err := h.postUseCase.ListExpiredByTopic(entity.Topic(c.Param("topic")))
	if err != nil {
		if errors.Is(err, entity.ErrInvalidTopic) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid topic"})
			return
		}
		h.logger.Error("Failed to list expired posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	if len(posts) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No expired posts found for this topic."})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// LikePost godoc
// @Summary      Toggle a like
// @Description  Likes the post, retracts an existing like, or replaces an existing dislike.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id}/like [patch]
func (h *PostHandler) LikePost(c *gin.Context) {
	h.react(c, entity.ReactionLike, "Users can not like their own posts.")
}

// DislikePost godoc
// @Summary      Toggle a dislike
// @Description  Dislikes the post, retracts an existing dislike, or replaces an existing like.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id}/dislike [patch]
func (h *PostHandler) DislikePost(c *gin.Context) {
	h.react(c, entity.ReactionDislike, "Users can not dislike their own posts")
}

func (h *PostHandler) react(c *gin.Context, kind entity.ReactionKind, ownMessage string) {
	postID := c.Param("id")
	actorID := c.GetString("user_id")

	post, err := h.postUseCase.React(postID, actorID, kind)
	if err != nil {
		// A missing post and an expired one are rejected alike here.
		if errors.Is(err, entity.ErrPostExpired) || errors.Is(err, entity.ErrPostNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot interact with an expired post"})
			return
		}
		if errors.Is(err, entity.ErrOwnPostReaction) {
			c.JSON(http.StatusBadRequest, gin.H{"message": ownMessage})
			return
		}
		h.logger.Error("Failed to apply %s on post %s: %v", kind, postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, post)
}

// CommentPost godoc
// @Summary      Comment on a post
// @Description  Appends a comment to a Live post. Comments are never edited, deleted, or reordered.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body CommentRequest true "Comment text"
// @Success      201  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id}/comment [post]
func (h *PostHandler) CommentPost(c *gin.Context) {
	postID := c.Param("id")
	actorID := c.GetString("user_id")

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	post, err := h.postUseCase.Comment(postID, actorID, req.Text)
	if err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
			return
		}
		if errors.Is(err, entity.ErrPostExpired) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot interact with an expired post"})
			return
		}
		h.logger.Error("Failed to comment on post %s: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary      Update a post
// @Description  Patch title, topic, body or expirationTime. Only the owner can update; status is not patchable.
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body UpdatePostRequest true "Fields to update"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id} [patch]
func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID := c.Param("id")
	ownerID := c.GetString("user_id")

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	patch := usecase.PostPatch{
		Title:          req.Title,
		Topic:          req.Topic,
		Body:           req.Body,
		ExpirationTime: req.ExpirationTime,
	}

	if err := h.postUseCase.UpdatePost(postID, ownerID, patch); err != nil {
		if errors.Is(err, entity.ErrInvalidTopic) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid topic"})
			return
		}
		if errors.Is(err, entity.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found or no changes made"})
			return
		}
		h.logger.Error("Failed to update post %s: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated"})
}

// DeletePost godoc
// @Summary      Delete a post
// @Description  Only the owner can delete their post.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) DeletePost(c *gin.Context) {
	postID := c.Param("id")
	ownerID := c.GetString("user_id")

	if err := h.postUseCase.DeletePost(postID, ownerID); err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
			return
		}
		h.logger.Error("Failed to delete post %s: %v", postID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}
