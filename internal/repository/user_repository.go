package repository

import (
	"gorm.io/gorm"

	"study-buddy/internal/model"
)

type UserRepository interface {
	CreateUser(user *model.User) error
	GetUserByID(userID uint) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	GetAllUsers() ([]model.User, error)
	DeleteUser(userID uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetUserByID(userID uint) (*model.User, error) {
	var user model.User
	if err := r.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetAllUsers() ([]model.User, error) {
	var users []model.User
	err := r.db.Order("id asc").Find(&users).Error
	return users, err
}

// DeleteUser removes a user and everything they own in one transaction.
// Children go first so the delete works whether or not the database
// enforces foreign keys.
func (r *userRepository) DeleteUser(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", userID).First(&model.User{}).Error; err != nil {
			return translate(err)
		}
		for _, record := range []interface{}{&model.Result{}, &model.Quiz{}, &model.Note{}} {
			if err := tx.Where("user_id = ?", userID).Delete(record).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.User{}, userID).Error
	})
}
