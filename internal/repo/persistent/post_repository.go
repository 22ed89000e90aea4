package persistent

import (
	"errors"
	"time"

	"piazza/internal/entity"
	"piazza/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepository interface {
	Create(post *entity.Post) error
	GetByID(id string) (*entity.Post, error)
	ListByStatus(status entity.PostStatus, topic entity.Topic) ([]*entity.Post, error)
	MostActiveByTopic(topic entity.Topic) (*entity.Post, error)
	Update(id, ownerID string, fields map[string]interface{}) (int64, error)
	Delete(id, ownerID string) (int64, error)
	ExpireDue() (int64, error)
	MarkExpired(id string) error
	GetReaction(postID, userID string) (entity.ReactionKind, bool, error)
	AddReaction(postID, userID string, kind entity.ReactionKind) error
	RemoveReaction(postID, userID string, kind entity.ReactionKind) error
	SwitchReaction(postID, userID string, from, to entity.ReactionKind) error
	AddComment(postID, authorID, text string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *entity.Post) error {
	postModel := ToPostModel(post)
	if postModel.ID == "" {
		postModel.ID = uuid.New().String()
	}

	if err := r.db.Omit(clause.Associations).Create(postModel).Error; err != nil {
		return err
	}

	post.ID = postModel.ID
	post.CreatedAt = postModel.CreatedAt
	return nil
}

func (r *postRepository) withResolved(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("Reactions.User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.Author")
}

func (r *postRepository) GetByID(id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.withResolved(r.db).Where("id = ?", id).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrPostNotFound
		}
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) ListByStatus(status entity.PostStatus, topic entity.Topic) ([]*entity.Post, error) {
	var postModels []model.PostModel
	query := r.withResolved(r.db).
		Where("status = ?", string(status)).
		Order("created_at DESC")

	if topic != "" {
		query = query.Where("topic = ?", string(topic))
	}

	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

func (r *postRepository) MostActiveByTopic(topic entity.Topic) (*entity.Post, error) {
	var postModel model.PostModel
	err := r.withResolved(r.db).
		Where("topic = ? AND status = ?", string(topic), string(entity.StatusLive)).
		Order("likes DESC, dislikes DESC").
		First(&postModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrPostNotFound
		}
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

// Update patches a post matched by id AND owner; a non-owner caller
// touches zero rows and is indistinguishable from a missing post.
func (r *postRepository) Update(id, ownerID string, fields map[string]interface{}) (int64, error) {
	res := r.db.Model(&model.PostModel{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *postRepository) Delete(id, ownerID string) (int64, error) {
	res := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.PostModel{})
	return res.RowsAffected, res.Error
}

// ExpireDue is the bulk sweep: one conditional update over every Live
// post whose expiration has passed.
func (r *postRepository) ExpireDue() (int64, error) {
	res := r.db.Model(&model.PostModel{}).
		Where("expiration_time <= ? AND status = ?", time.Now(), string(entity.StatusLive)).
		UpdateColumn("status", string(entity.StatusExpired))
	return res.RowsAffected, res.Error
}

// MarkExpired persists the point-check flip. The status guard keeps
// expiry monotonic: an already Expired post is never rewritten.
func (r *postRepository) MarkExpired(id string) error {
	return r.db.Model(&model.PostModel{}).
		Where("id = ? AND status = ?", id, string(entity.StatusLive)).
		UpdateColumn("status", string(entity.StatusExpired)).Error
}

func (r *postRepository) GetReaction(postID, userID string) (entity.ReactionKind, bool, error) {
	var reaction model.ReactionModel
	err := r.db.Where("post_id = ? AND user_id = ?", postID, userID).First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entity.ReactionKind(reaction.Kind), true, nil
}

// AddReaction inserts the membership row if absent and bumps the matching
// counter in the same transaction. The conditional insert plus the
// counter update keyed on RowsAffected keeps likes == |likedBy| under
// concurrent toggles; there is no whole-row read-modify-write.
func (r *postRepository) AddReaction(postID, userID string, kind entity.ReactionKind) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		reaction := &model.ReactionModel{
			ID:     uuid.New().String(),
			PostID: postID,
			UserID: userID,
			Kind:   string(kind),
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(reaction)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return r.bumpCounter(tx, postID, kind, +1)
	})
}

func (r *postRepository) RemoveReaction(postID, userID string, kind entity.ReactionKind) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ? AND kind = ?", postID, userID, string(kind)).
			Delete(&model.ReactionModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return r.bumpCounter(tx, postID, kind, -1)
	})
}

// SwitchReaction retargets an existing reaction row and moves one unit
// between the two counters. The kind guard in the WHERE clause makes the
// whole operation a no-op if a concurrent request already changed it.
func (r *postRepository) SwitchReaction(postID, userID string, from, to entity.ReactionKind) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ReactionModel{}).
			Where("post_id = ? AND user_id = ? AND kind = ?", postID, userID, string(from)).
			Update("kind", string(to))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := r.bumpCounter(tx, postID, from, -1); err != nil {
			return err
		}
		return r.bumpCounter(tx, postID, to, +1)
	})
}

func (r *postRepository) bumpCounter(tx *gorm.DB, postID string, kind entity.ReactionKind, delta int) error {
	column := "likes"
	if kind == entity.ReactionDislike {
		column = "dislikes"
	}
	return tx.Model(&model.PostModel{}).
		Where("id = ?", postID).
		UpdateColumn(column, clause.Expr{SQL: column + " + ?", Vars: []interface{}{delta}}).Error
}

func (r *postRepository) AddComment(postID, authorID, text string) error {
	comment := &model.CommentModel{
		ID:       uuid.New().String(),
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	}
	return r.db.Create(comment).Error
}
