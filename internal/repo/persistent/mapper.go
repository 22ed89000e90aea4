package persistent

import (
	"piazza/internal/entity"
	"piazza/internal/model"
)

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	post := &entity.Post{
		ID:             m.ID,
		OwnerID:        m.OwnerID,
		Owner:          m.Owner.Username,
		Title:          m.Title,
		Topic:          entity.Topic(m.Topic),
		Body:           m.Body,
		Status:         entity.PostStatus(m.Status),
		Likes:          m.Likes,
		Dislikes:       m.Dislikes,
		LikedBy:        []string{},
		DislikedBy:     []string{},
		Comments:       []entity.Comment{},
		CreatedAt:      m.CreatedAt,
		ExpirationTime: m.ExpirationTime,
	}

	for _, reaction := range m.Reactions {
		name := reaction.User.Username
		if name == "" {
			name = reaction.UserID
		}
		switch entity.ReactionKind(reaction.Kind) {
		case entity.ReactionLike:
			post.LikedBy = append(post.LikedBy, name)
		case entity.ReactionDislike:
			post.DislikedBy = append(post.DislikedBy, name)
		}
	}

	for _, comment := range m.Comments {
		name := comment.Author.Username
		if name == "" {
			name = comment.AuthorID
		}
		post.Comments = append(post.Comments, entity.Comment{
			AuthorID:  comment.AuthorID,
			Author:    name,
			Text:      comment.Text,
			Timestamp: comment.CreatedAt,
		})
	}

	return post
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	return &model.PostModel{
		ID:             e.ID,
		OwnerID:        e.OwnerID,
		Title:          e.Title,
		Topic:          string(e.Topic),
		Body:           e.Body,
		Status:         string(e.Status),
		Likes:          e.Likes,
		Dislikes:       e.Dislikes,
		ExpirationTime: e.ExpirationTime,
		CreatedAt:      e.CreatedAt,
	}
}

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:        m.ID,
		Email:     m.Email,
		Username:  m.Username,
		Password:  m.Password,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:        e.ID,
		Email:     e.Email,
		Username:  e.Username,
		Password:  e.Password,
		Role:      e.Role,
		CreatedAt: e.CreatedAt,
	}
}
