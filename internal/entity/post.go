package entity

import "time"

type Topic string

const (
	TopicTech     Topic = "Tech"
	TopicPolitics Topic = "Politics"
	TopicSports   Topic = "Sports"
	TopicHealth   Topic = "Health"
)

func ValidTopic(t Topic) bool {
	switch t {
	case TopicTech, TopicPolitics, TopicSports, TopicHealth:
		return true
	}
	return false
}

type PostStatus string

const (
	StatusLive    PostStatus = "Live"
	StatusExpired PostStatus = "Expired"
)

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// Other returns the opposite reaction kind.
func (k ReactionKind) Other() ReactionKind {
	if k == ReactionLike {
		return ReactionDislike
	}
	return ReactionLike
}

// DefaultExpiration is applied when a post is created without an
// explicit expirationDuration.
const DefaultExpiration = 15 * time.Minute

// Post is a post with the owner and everyone who reacted or commented
// resolved to display names.
type Post struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"-"`
	Owner          string     `json:"owner"`
	Title          string     `json:"title"`
	Topic          Topic      `json:"topic"`
	Body           string     `json:"body"`
	Status         PostStatus `json:"status"`
	Likes          int        `json:"likes"`
	Dislikes       int        `json:"dislikes"`
	LikedBy        []string   `json:"likedBy"`
	DislikedBy     []string   `json:"dislikedBy"`
	Comments       []Comment  `json:"comments"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpirationTime time.Time  `json:"expirationTime"`
}

type Comment struct {
	AuthorID  string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ExpiredBy reports whether the post's expiration has passed at the
// given instant. The persisted status may lag behind this; the sweep
// and the per-operation point check reconcile the two.
func (p *Post) ExpiredBy(now time.Time) bool {
	return !p.ExpirationTime.After(now)
}
