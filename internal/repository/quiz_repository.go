package repository

import (
	"gorm.io/gorm"

	"study-buddy/internal/model"
)

// QuizRepository has no update method: a stored quiz is never edited.
type QuizRepository interface {
	CreateQuiz(quiz *model.Quiz) error
	GetQuizByID(quizID uint) (*model.Quiz, error)
	GetQuizzesByNote(noteID uint) ([]model.Quiz, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) CreateQuiz(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *quizRepository) GetQuizByID(quizID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.Where("id = ?", quizID).First(&quiz).Error; err != nil {
		return nil, translate(err)
	}
	return &quiz, nil
}

func (r *quizRepository) GetQuizzesByNote(noteID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.Where("note_id = ?", noteID).Order("created_at desc, id desc").Find(&quizzes).Error
	return quizzes, err
}
