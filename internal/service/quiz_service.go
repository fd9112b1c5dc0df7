package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"study-buddy/internal/model"
	"study-buddy/internal/repository"
)

// PublicQuestion is a question as shown to the quiz taker, without its answer.
type PublicQuestion struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// QuizView is the presented state of a quiz.
type QuizView struct {
	ID        uint             `json:"id"`
	NoteID    uint             `json:"note_id"`
	NoteTitle string           `json:"note_title"`
	Questions []PublicQuestion `json:"questions"`
	Fallback  bool             `json:"fallback"`
	CreatedAt time.Time        `json:"created_at"`
}

type QuizService interface {
	GenerateQuiz(ctx context.Context, userID, noteID uint) (*model.Quiz, error)
	GetQuiz(userID, quizID uint) (*model.Quiz, error)
	GetQuizView(userID, quizID uint) (*QuizView, error)
	ListQuizzes(userID, noteID uint) ([]model.Quiz, error)
}

type quizService struct {
	quizRepo  repository.QuizRepository
	notes     NoteService
	generator *QuizGenerator
	log       *slog.Logger
}

func NewQuizService(quizRepo repository.QuizRepository, notes NoteService, generator *QuizGenerator, log *slog.Logger) QuizService {
	return &quizService{quizRepo: quizRepo, notes: notes, generator: generator, log: log}
}

// GenerateQuiz builds a quiz from the note's current content and stores it.
// The note is not locked; an edit racing with generation is tolerated.
func (s *quizService) GenerateQuiz(ctx context.Context, userID, noteID uint) (*model.Quiz, error) {
	note, err := s.notes.GetNote(userID, noteID)
	if err != nil {
		return nil, err
	}

	questions, err := s.generator.Generate(ctx, note.Content)
	if err != nil {
		s.log.Error("generate quiz", "note_id", noteID, "error", err)
		return nil, err
	}

	quiz := &model.Quiz{UserID: userID, NoteID: note.ID}
	if err := quiz.SetQuestions(questions); err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}
	if err := s.quizRepo.CreateQuiz(quiz); err != nil {
		return nil, fmt.Errorf("save quiz: %w", err)
	}
	s.log.Info("quiz generated", "quiz_id", quiz.ID, "note_id", note.ID, "questions", len(questions))
	return quiz, nil
}

// GetQuiz returns the quiz only if it belongs to userID.
func (s *quizService) GetQuiz(userID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetQuizByID(quizID)
	if err != nil {
		return nil, lookupError("quiz", err)
	}
	if err := ownedBy(quiz.UserID, userID); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *quizService) GetQuizView(userID, quizID uint) (*QuizView, error) {
	quiz, err := s.GetQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := quiz.QuestionList()
	if err != nil {
		return nil, fmt.Errorf("decode quiz %d: %w", quiz.ID, err)
	}
	note, err := s.notes.GetNote(userID, quiz.NoteID)
	if err != nil {
		return nil, err
	}

	public := lo.Map(questions, func(q model.Question, i int) PublicQuestion {
		return PublicQuestion{Index: i, Question: q.Question, Options: lo.Ternary(q.Options == nil, []string{}, q.Options)}
	})
	return &QuizView{
		ID:        quiz.ID,
		NoteID:    quiz.NoteID,
		NoteTitle: note.Title,
		Questions: public,
		Fallback:  IsFallbackQuiz(questions),
		CreatedAt: quiz.CreatedAt,
	}, nil
}

// ListQuizzes returns the quizzes generated from one of the user's notes.
func (s *quizService) ListQuizzes(userID, noteID uint) ([]model.Quiz, error) {
	if _, err := s.notes.GetNote(userID, noteID); err != nil {
		return nil, err
	}
	return s.quizRepo.GetQuizzesByNote(noteID)
}

// IsFallbackQuiz reports whether questions is the placeholder stored after
// a failed generation.
func IsFallbackQuiz(questions []model.Question) bool {
	return len(questions) == 1 && len(questions[0].Options) == 0 && questions[0].Answer == ""
}
