package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:200;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

type Note struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Title     string    `json:"title" gorm:"size:120;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Summary   *string   `json:"summary,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// Question is one multiple-choice item of a generated quiz.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Quiz keeps its ordered questions in a single JSON column. The blob is
// written once at creation and never updated.
type Quiz struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;index"`
	User      *User          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	NoteID    uint           `json:"note_id" gorm:"not null;index"`
	Note      *Note          `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Questions datatypes.JSON `json:"-" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
}

// QuestionList decodes the stored question blob. Entries that are not
// objects decode to empty questions rather than failing the whole quiz.
func (q *Quiz) QuestionList() ([]Question, error) {
	if len(q.Questions) == 0 {
		return nil, nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(q.Questions, &raw); err != nil {
		return nil, err
	}
	questions := make([]Question, len(raw))
	for i, item := range raw {
		var question Question
		if err := json.Unmarshal(item, &question); err != nil {
			continue
		}
		questions[i] = question
	}
	return questions, nil
}

// SetQuestions serializes questions into the blob column.
func (q *Quiz) SetQuestions(questions []Question) error {
	if questions == nil {
		questions = []Question{}
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	q.Questions = datatypes.JSON(data)
	return nil
}

type Result struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	User      *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	QuizID    uint      `json:"quiz_id" gorm:"not null;index"`
	Quiz      *Quiz     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Score     int       `json:"score" gorm:"not null"`
	Total     int       `json:"total" gorm:"not null"`
	Feedback  string    `json:"feedback" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// Percentage returns score/total as a percentage; a zero total yields 0.
func (r Result) Percentage() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total) * 100
}
