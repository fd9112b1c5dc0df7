package repository

import (
	"gorm.io/gorm"

	"study-buddy/internal/model"
)

// ResultRepository is insert-only; results are immutable once written.
type ResultRepository interface {
	CreateResult(result *model.Result) error
	GetResultByID(resultID uint) (*model.Result, error)
	GetRecentResultsByUser(userID uint, limit int) ([]model.Result, error)
	GetResultsByQuiz(quizID uint) ([]model.Result, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) CreateResult(result *model.Result) error {
	return r.db.Create(result).Error
}

func (r *resultRepository) GetResultByID(resultID uint) (*model.Result, error) {
	var result model.Result
	if err := r.db.Where("id = ?", resultID).First(&result).Error; err != nil {
		return nil, translate(err)
	}
	return &result, nil
}

// GetRecentResultsByUser returns the newest results first.
func (r *resultRepository) GetRecentResultsByUser(userID uint, limit int) ([]model.Result, error) {
	var results []model.Result
	query := r.db.Where("user_id = ?", userID).Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&results).Error
	return results, err
}

func (r *resultRepository) GetResultsByQuiz(quizID uint) ([]model.Result, error) {
	var results []model.Result
	err := r.db.Where("quiz_id = ?", quizID).Order("created_at desc, id desc").Find(&results).Error
	return results, err
}
