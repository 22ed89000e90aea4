package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"piazza/internal/entity"
	"piazza/internal/usecase"
	"piazza/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostUseCase is a mock implementation of PostUseCase
type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) CreatePost(ownerID, title string, topic entity.Topic, body string, expirationDuration *int) (*entity.Post, error) {
	args := m.Called(ownerID, title, topic, body, expirationDuration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) ListLive() ([]*entity.Post, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) GetLivePost(postID string) (*entity.Post, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) ListLiveByTopic(topic entity.Topic) ([]*entity.Post, error) {
	args := m.Called(topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) MostActiveByTopic(topic entity.Topic) (*entity.Post, error) {
	args := m.Called(topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) ListExpiredByTopic(topic entity.Topic) ([]*entity.Post, error) {
	args := m.Called(topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) React(postID, actorID string, kind entity.ReactionKind) (*entity.Post, error) {
	args := m.Called(postID, actorID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) Comment(postID, actorID, text string) (*entity.Post, error) {
	args := m.Called(postID, actorID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) UpdatePost(postID, ownerID string, patch usecase.PostPatch) error {
	args := m.Called(postID, ownerID, patch)
	return args.Error(0)
}

func (m *MockPostUseCase) DeletePost(postID, ownerID string) error {
	args := m.Called(postID, ownerID)
	return args.Error(0)
}

func (m *MockPostUseCase) ExpireDue() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

var _ usecase.PostUseCase = (*MockPostUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func asUser(userID string, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		handler(c)
	}
}

func samplePost(id, owner string) *entity.Post {
	return &entity.Post{
		ID:             id,
		Owner:          owner,
		Title:          "Test Post",
		Topic:          entity.TopicTech,
		Body:           "body",
		Status:         entity.StatusLive,
		ExpirationTime: time.Now().Add(15 * time.Minute),
		CreatedAt:      time.Now(),
	}
}

func TestCreatePost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts", asUser("user-1", handler.CreatePost))

	duration := 30
	mockUseCase.On("CreatePost", "user-1", "Test Post", entity.TopicTech, "body", &duration).
		Return(samplePost("post-1", "alice"), nil)

	body := `{"title":"Test Post","topic":"Tech","body":"body","expirationDuration":30}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "post-1", response["id"])
	assert.Equal(t, "Live", response["status"])
	mockUseCase.AssertExpectations(t)
}

func TestCreatePost_InvalidTopicRejectedByBinding(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts", asUser("user-1", handler.CreatePost))

	body := `{"title":"Test Post","topic":"Gaming","body":"body"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreatePost_InvalidDuration(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts", asUser("user-1", handler.CreatePost))

	duration := 0
	mockUseCase.On("CreatePost", "user-1", "Test Post", entity.TopicTech, "body", &duration).
		Return(nil, entity.ErrInvalidDuration)

	body := `{"title":"Test Post","topic":"Tech","body":"body","expirationDuration":0}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Invalid expiration duration", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestListPosts_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts", handler.ListPosts)

	mockUseCase.On("ListLive").Return([]*entity.Post{
		samplePost("post-1", "alice"),
		samplePost("post-2", "bob"),
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response, 2)
	mockUseCase.AssertExpectations(t)
}

func TestGetPost_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts/:id", handler.GetPost)

	mockUseCase.On("GetLivePost", "missing").Return(nil, entity.ErrPostNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/missing", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Post not found", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestMostActivePost_Empty(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts/most-active/:topic", handler.MostActivePost)

	mockUseCase.On("MostActiveByTopic", entity.TopicSports).Return(nil, entity.ErrPostNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/most-active/Sports", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "There are no posts on this topic yet...", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestListExpiredPostsByTopic_NoneFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts/expired/topic/:topic", handler.ListExpiredPostsByTopic)

	mockUseCase.On("ListExpiredByTopic", entity.TopicHealth).Return([]*entity.Post{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/expired/topic/Health", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "No expired posts found for this topic.", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestListPostsByTopic_InvalidTopic(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.GET("/posts/topic/:topic", handler.ListPostsByTopic)

	mockUseCase.On("ListLiveByTopic", entity.Topic("Gossip")).Return(nil, entity.ErrInvalidTopic)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/posts/topic/Gossip", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestLikePost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PATCH("/posts/:id/like", asUser("user-2", handler.LikePost))

	liked := samplePost("post-1", "alice")
	liked.Likes = 1
	liked.LikedBy = []string{"bob"}
	mockUseCase.On("React", "post-1", "user-2", entity.ReactionLike).Return(liked, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/posts/post-1/like", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(1), response["likes"])
	mockUseCase.AssertExpectations(t)
}

func TestLikePost_OwnPost(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PATCH("/posts/:id/like", asUser("user-1", handler.LikePost))

	mockUseCase.On("React", "post-1", "user-1", entity.ReactionLike).Return(nil, entity.ErrOwnPostReaction)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/posts/post-1/like", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Users can not like their own posts.", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestDislikePost_OwnPost(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PATCH("/posts/:id/dislike", asUser("user-1", handler.DislikePost))

	mockUseCase.On("React", "post-1", "user-1", entity.ReactionDislike).Return(nil, entity.ErrOwnPostReaction)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/posts/post-1/dislike", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Users can not dislike their own posts", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestLikePost_Expired(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PATCH("/posts/:id/like", asUser("user-2", handler.LikePost))

	mockUseCase.On("React", "post-1", "user-2", entity.ReactionLike).Return(nil, entity.ErrPostExpired)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/posts/post-1/like", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Cannot interact with an expired post", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestLikePost_Missing(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PATCH("/posts/:id/like", asUser("user-2", handler.LikePost))

	mockUseCase.On("React", "missing", "user-2", entity.ReactionLike).Return(nil, entity.ErrPostNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/posts/missing/like", nil)

	router.ServeHTTP(w, req)

	// Missing posts get the same rejection as expired ones.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Cannot interact with an expired post", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestCommentPost_Created(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/comment", asUser("user-2", handler.CommentPost))

	commented := samplePost("post-1", "alice")
	commented.Comments = []entity.Comment{{Author: "bob", Text: "nice one", Timestamp: time.Now()}}
	mockUseCase.On("Comment", "post-1", "user-2", "nice one").Return(commented, nil)

	body := `{"text":"nice one"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-1/comment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	comments := response["comments"].([]interface{})
	assert.Len(t, comments, 1)
	mockUseCase.AssertExpectations(t)
}

func TestCommentPost_MissingText(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/comment", asUser("user-2", handler.CommentPost))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-1/comment", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockUseCase.AssertNotCalled(t, "Comment", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommentPost_Expired(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.POST("/posts/:id/comment", asUser("user-2", handler.CommentPost))

	mockUseCase.On("Comment", "post-1", "user-2", "too late").Return(nil, entity.ErrPostExpired)

	body := `{"text":"too late"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/posts/post-1/comment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Cannot interact with an expired post", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestUpdatePost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PATCH("/posts/:id", asUser("user-1", handler.UpdatePost))

	title := "New Title"
	mockUseCase.On("UpdatePost", "post-1", "user-1", usecase.PostPatch{Title: &title}).Return(nil)

	body := `{"title":"New Title"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/posts/post-1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestUpdatePost_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.PATCH("/posts/:id", asUser("user-2", handler.UpdatePost))

	title := "New Title"
	mockUseCase.On("UpdatePost", "post-1", "user-2", usecase.PostPatch{Title: &title}).
		Return(entity.ErrPostNotFound)

	body := `{"title":"New Title"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("PATCH", "/posts/post-1", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Post not found or no changes made", response["message"])
	mockUseCase.AssertExpectations(t)
}

func TestDeletePost_Success(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.DELETE("/posts/:id", asUser("user-1", handler.DeletePost))

	mockUseCase.On("DeletePost", "post-1", "user-1").Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/post-1", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestDeletePost_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	handler := NewPostHandler(mockUseCase, logger.New())

	router := setupTestRouter()
	router.DELETE("/posts/:id", asUser("user-2", handler.DeletePost))

	mockUseCase.On("DeletePost", "post-1", "user-2").Return(entity.ErrPostNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/posts/post-1", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestNewPostHandler(t *testing.T) {
	handler := NewPostHandler(new(MockPostUseCase), logger.New())
	assert.NotNil(t, handler)
}
