package usecase

import (
	"fmt"
	"time"

	"piazza/internal/entity"
	"piazza/internal/repo/persistent"
	"piazza/pkg/logger"
)

// PostPatch carries the owner-editable fields of a post. Status is
// deliberately absent: expiry is irreversible and a patch must not be
// able to revive an Expired post.
type PostPatch struct {
	Title          *string
	Topic          *entity.Topic
	Body           *string
	ExpirationTime *time.Time
}

type PostUseCase interface {
	CreatePost(ownerID, title string, topic entity.Topic, body string, expirationDuration *int) (*entity.Post, error)
	ListLive() ([]*entity.Post, error)
	GetLivePost(postID string) (*entity.Post, error)
	ListLiveByTopic(topic entity.Topic) ([]*entity.Post, error)
	MostActiveByTopic(topic entity.Topic) (*entity.Post, error)
	ListExpiredByTopic(topic entity.Topic) ([]*entity.Post, error)
	React(postID, actorID string, kind entity.ReactionKind) (*entity.Post, error)
	Comment(postID, actorID, text string) (*entity.Post, error)
	UpdatePost(postID, ownerID string, patch PostPatch) error
	DeletePost(postID, ownerID string) error
	ExpireDue() (int64, error)
}

type postUseCase struct {
	postRepo persistent.PostRepository
	logger   *logger.Logger
}

func NewPostUseCase(postRepo persistent.PostRepository, logger *logger.Logger) PostUseCase {
	return &postUseCase{
		postRepo: postRepo,
		logger:   logger,
	}
}

func (uc *postUseCase) CreatePost(ownerID, title string, topic entity.Topic, body string, expirationDuration *int) (*entity.Post, error) {
	if !entity.ValidTopic(topic) {
		return nil, entity.ErrInvalidTopic
	}

	duration := entity.DefaultExpiration
	if expirationDuration != nil {
		if *expirationDuration <= 0 {
			return nil, entity.ErrInvalidDuration
		}
		duration = time.Duration(*expirationDuration) * time.Minute
	}

	now := time.Now()
	post := &entity.Post{
		OwnerID:        ownerID,
		Title:          title,
		Topic:          topic,
		Body:           body,
		Status:         entity.StatusLive,
		ExpirationTime: now.Add(duration),
		CreatedAt:      now,
	}

	if err := uc.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return uc.postRepo.GetByID(post.ID)
}

func (uc *postUseCase) ListLive() ([]*entity.Post, error) {
	return uc.postRepo.ListByStatus(entity.StatusLive, "")
}

// GetLivePost returns a single Live post. Expired posts are invisible
// here; they only surface through the expired-by-topic listing.
func (uc *postUseCase) GetLivePost(postID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}
	if post.Status != entity.StatusLive {
		return nil, entity.ErrPostNotFound
	}
	return post, nil
}

func (uc *postUseCase) ListLiveByTopic(topic entity.Topic) ([]*entity.Post, error) {
	if !entity.ValidTopic(topic) {
		return nil, entity.ErrInvalidTopic
	}
	return uc.postRepo.ListByStatus(entity.StatusLive, topic)
}

func (uc *postUseCase) MostActiveByTopic(topic entity.Topic) (*entity.Post, error) {
	if !entity.ValidTopic(topic) {
		return nil, entity.ErrInvalidTopic
	}
	return uc.postRepo.MostActiveByTopic(topic)
}

func (uc *postUseCase) ListExpiredByTopic(topic entity.Topic) ([]*entity.Post, error) {
	if !entity.ValidTopic(topic) {
		return nil, entity.ErrInvalidTopic
	}
	// The route middleware already swept, but sweep once more right
	// before reading so the listing is fresh even on a racing clock.
	if _, err := uc.postRepo.ExpireDue(); err != nil {
		return nil, fmt.Errorf("failed to sweep expired posts: %w", err)
	}
	return uc.postRepo.ListByStatus(entity.StatusExpired, topic)
}

// guardInteraction runs the point check shared by reactions and
// comments: the post must exist and be Live. When this very call is
// what detects an elapsed expiration, the status flip is persisted
// before the rejection is returned.
func (uc *postUseCase) guardInteraction(postID string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(postID)
	if err != nil {
		return nil, err
	}

	if post.Status == entity.StatusExpired {
		return nil, entity.ErrPostExpired
	}

	if post.ExpiredBy(time.Now()) {
		if err := uc.postRepo.MarkExpired(post.ID); err != nil {
			uc.logger.Error("Failed to persist expiry of post %s: %v", post.ID, err)
			return nil, fmt.Errorf("failed to update post status: %w", err)
		}
		return nil, entity.ErrPostExpired
	}

	return post, nil
}

func (uc *postUseCase) React(postID, actorID string, kind entity.ReactionKind) (*entity.Post, error) {
	post, err := uc.guardInteraction(postID)
	if err != nil {
		return nil, err
	}

	if post.OwnerID == actorID {
		return nil, entity.ErrOwnPostReaction
	}

	existing, found, err := uc.postRepo.GetReaction(postID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check reaction: %w", err)
	}

	switch {
	case found && existing == kind:
		// Toggle off: the actor retracts their reaction.
		err = uc.postRepo.RemoveReaction(postID, actorID, kind)
	case found:
		// Switch: the opposite reaction is replaced in one operation.
		err = uc.postRepo.SwitchReaction(postID, actorID, existing, kind)
	default:
		err = uc.postRepo.AddReaction(postID, actorID, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply reaction: %w", err)
	}

	return uc.postRepo.GetByID(postID)
}

func (uc *postUseCase) Comment(postID, actorID, text string) (*entity.Post, error) {
	if _, err := uc.guardInteraction(postID); err != nil {
		return nil, err
	}

	if err := uc.postRepo.AddComment(postID, actorID, text); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return uc.postRepo.GetByID(postID)
}

func (uc *postUseCase) UpdatePost(postID, ownerID string, patch PostPatch) error {
	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Topic != nil {
		if !entity.ValidTopic(*patch.Topic) {
			return entity.ErrInvalidTopic
		}
		fields["topic"] = string(*patch.Topic)
	}
	if patch.Body != nil {
		fields["body"] = *patch.Body
	}
	if patch.ExpirationTime != nil {
		fields["expiration_time"] = *patch.ExpirationTime
	}

	if len(fields) == 0 {
		return entity.ErrPostNotFound
	}

	rows, err := uc.postRepo.Update(postID, ownerID, fields)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if rows == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

func (uc *postUseCase) DeletePost(postID, ownerID string) error {
	rows, err := uc.postRepo.Delete(postID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if rows == 0 {
		return entity.ErrPostNotFound
	}
	return nil
}

func (uc *postUseCase) ExpireDue() (int64, error) {
	return uc.postRepo.ExpireDue()
}
