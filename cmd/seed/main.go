package main

import (
	"fmt"
	"time"

	"piazza/internal/entity"
	"piazza/internal/repo/persistent"
	"piazza/pkg/config"
	"piazza/pkg/database"
	"piazza/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	userRepo := persistent.NewUserRepository(db)
	postRepo := persistent.NewPostRepository(db)

	testUsers := []struct {
		email    string
		username string
		password string
	}{
		{"olga@test.com", "olga_nikolaou", "password123"},
		{"nick@test.com", "nick_papas", "password123"},
		{"mary@test.com", "mary_k", "password123"},
		{"nestor@test.com", "nestor_b", "password123"},
	}

	users := make([]*entity.User, 0, len(testUsers))
	for _, userData := range testUsers {
		if existing, err := userRepo.GetByEmail(userData.email); err == nil {
			log.Info("User %s already exists, skipping", existing.Username)
			users = append(users, existing)
			continue
		}

		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(userData.password), bcrypt.DefaultCost)
		user := &entity.User{
			Email:    userData.email,
			Username: userData.username,
			Password: string(hashedPassword),
			Role:     entity.RoleUser,
		}
		if err := userRepo.Create(user); err != nil {
			log.Error("Failed to create user %s: %v", userData.username, err)
			continue
		}
		log.Info("Created user: %s (%s)", user.Username, user.Email)
		users = append(users, user)
	}

	if len(users) < 2 {
		panic("seed needs at least two users")
	}

	topics := []entity.Topic{entity.TopicTech, entity.TopicPolitics, entity.TopicSports, entity.TopicHealth}
	durations := []time.Duration{5 * time.Minute, 15 * time.Minute, time.Hour, 24 * time.Hour}

	now := time.Now()
	for i, topic := range topics {
		owner := users[i%len(users)]
		post := &entity.Post{
			OwnerID:        owner.ID,
			Title:          fmt.Sprintf("Hot takes on %s", topic),
			Topic:          topic,
			Body:           fmt.Sprintf("A seeded discussion about %s by %s.", topic, owner.Username),
			Status:         entity.StatusLive,
			ExpirationTime: now.Add(durations[i%len(durations)]),
			CreatedAt:      now,
		}
		if err := postRepo.Create(post); err != nil {
			log.Error("Failed to create post on %s: %v", topic, err)
			continue
		}
		log.Info("Created post %s on topic %s", post.ID, topic)

		for j, user := range users {
			if user.ID == owner.ID {
				continue
			}
			kind := entity.ReactionLike
			if j%2 == 0 {
				kind = entity.ReactionDislike
			}
			if err := postRepo.AddReaction(post.ID, user.ID, kind); err != nil {
				log.Error("Failed to seed reaction: %v", err)
			}
		}

		commenter := users[(i+1)%len(users)]
		if err := postRepo.AddComment(post.ID, commenter.ID, fmt.Sprintf("First comment on %s!", topic)); err != nil {
			log.Error("Failed to seed comment: %v", err)
		}
	}

	log.Info("Database seeded successfully!")
}
