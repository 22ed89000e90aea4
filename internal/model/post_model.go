package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostModel struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID        string    `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title          string    `gorm:"type:varchar(255);not null" json:"title"`
	Topic          string    `gorm:"type:varchar(20);not null;index" json:"topic"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	Status         string    `gorm:"type:varchar(10);not null;default:'Live';index" json:"status"`
	Likes          int       `gorm:"not null;default:0" json:"likes"`
	Dislikes       int       `gorm:"not null;default:0" json:"dislikes"`
	ExpirationTime time.Time `gorm:"not null;index" json:"expiration_time"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Owner     UserModel       `gorm:"foreignKey:OwnerID" json:"-"`
	Reactions []ReactionModel `gorm:"foreignKey:PostID" json:"-"`
	Comments  []CommentModel  `gorm:"foreignKey:PostID" json:"-"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// ReactionModel holds one user's reaction to one post. The unique index
// on (post_id, user_id) keeps the liked and disliked sets disjoint.
type ReactionModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_post_user" json:"user_id"`
	Kind      string    `gorm:"type:varchar(10);not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User UserModel `gorm:"foreignKey:UserID" json:"-"`
}

func (ReactionModel) TableName() string {
	return "reactions"
}

func (r *ReactionModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

type CommentModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	PostID    string    `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  string    `gorm:"type:uuid;not null" json:"author_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`

	Author UserModel `gorm:"foreignKey:AuthorID" json:"-"`
}

func (CommentModel) TableName() string {
	return "comments"
}

func (c *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
