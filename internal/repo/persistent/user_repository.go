package persistent

import (
	"piazza/internal/entity"
	"piazza/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *entity.User) error {
	userModel := ToUserModel(user)
	if userModel.ID == "" {
		userModel.ID = uuid.New().String()
	}

	if err := r.db.Create(userModel).Error; err != nil {
		return err
	}

	user.ID = userModel.ID
	user.CreatedAt = userModel.CreatedAt
	return nil
}

func (r *userRepository) GetByID(id string) (*entity.User, error) {
	return r.getOne("id = ?", id)
}

func (r *userRepository) GetByEmail(email string) (*entity.User, error) {
	return r.getOne("email = ?", email)
}

func (r *userRepository) GetByUsername(username string) (*entity.User, error) {
	return r.getOne("username = ?", username)
}

func (r *userRepository) getOne(query string, arg string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where(query, arg).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}
