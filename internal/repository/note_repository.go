package repository

import (
	"gorm.io/gorm"

	"study-buddy/internal/model"
)

type NoteRepository interface {
	CreateNote(note *model.Note) error
	GetNoteByID(noteID uint) (*model.Note, error)
	GetNotesByUser(userID uint) ([]model.Note, error)
	UpdateSummary(noteID uint, summary string) error
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) CreateNote(note *model.Note) error {
	return r.db.Create(note).Error
}

func (r *noteRepository) GetNoteByID(noteID uint) (*model.Note, error) {
	var note model.Note
	if err := r.db.Where("id = ?", noteID).First(&note).Error; err != nil {
		return nil, translate(err)
	}
	return &note, nil
}

func (r *noteRepository) GetNotesByUser(userID uint) ([]model.Note, error) {
	var notes []model.Note
	err := r.db.Where("user_id = ?", userID).Order("created_at desc, id desc").Find(&notes).Error
	return notes, err
}

func (r *noteRepository) UpdateSummary(noteID uint, summary string) error {
	result := r.db.Model(&model.Note{}).Where("id = ?", noteID).Update("summary", summary)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
