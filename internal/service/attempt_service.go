package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"study-buddy/internal/model"
	"study-buddy/internal/repository"
)

// AttemptService scores a submitted quiz and records the result.
type AttemptService interface {
	SubmitAttempt(ctx context.Context, userID, quizID uint, answers map[int]string) (*model.Result, error)
}

type attemptService struct {
	quizzes    QuizService
	noteRepo   repository.NoteRepository
	resultRepo repository.ResultRepository
	feedback   *FeedbackGenerator
	log        *slog.Logger
}

func NewAttemptService(
	quizzes QuizService,
	noteRepo repository.NoteRepository,
	resultRepo repository.ResultRepository,
	feedback *FeedbackGenerator,
	log *slog.Logger,
) AttemptService {
	return &attemptService{
		quizzes:    quizzes,
		noteRepo:   noteRepo,
		resultRepo: resultRepo,
		feedback:   feedback,
		log:        log,
	}
}

// Score counts the answers that exactly match their question's answer.
// total is the number of questions; unanswered indexes and questions
// without an answer never match.
func Score(questions []model.Question, answers map[int]string) (score, total int) {
	for i, q := range questions {
		submitted, ok := answers[i]
		if ok && q.Answer != "" && submitted == q.Answer {
			score++
		}
	}
	return score, len(questions)
}

// SubmitAttempt scores answers against the stored quiz, asks for feedback
// and writes one Result. If feedback cannot be produced nothing is stored
// and ErrAIUnavailable is returned so the user can resubmit.
func (s *attemptService) SubmitAttempt(ctx context.Context, userID, quizID uint, answers map[int]string) (*model.Result, error) {
	quiz, err := s.quizzes.GetQuiz(userID, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := quiz.QuestionList()
	if err != nil {
		return nil, fmt.Errorf("decode quiz %d: %w", quiz.ID, err)
	}

	score, total := Score(questions, answers)

	note, err := s.noteRepo.GetNoteByID(quiz.NoteID)
	if err != nil {
		return nil, lookupError("note", err)
	}

	userAnswers := lo.Times(len(questions), func(i int) string { return answers[i] })
	feedback, err := s.feedback.Generate(ctx, FeedbackInput{
		NoteTitle:      note.Title,
		Questions:      lo.Map(questions, func(q model.Question, _ int) string { return q.Question }),
		UserAnswers:    userAnswers,
		CorrectAnswers: lo.Map(questions, func(q model.Question, _ int) string { return q.Answer }),
		Score:          score,
		Total:          total,
	})
	if err != nil {
		s.log.Error("feedback generation failed, attempt not recorded",
			"quiz_id", quiz.ID, "user_id", userID, "score", score, "total", total, "error", err)
		return nil, err
	}

	result := &model.Result{
		UserID:   userID,
		QuizID:   quiz.ID,
		Score:    score,
		Total:    total,
		Feedback: feedback,
	}
	if err := s.resultRepo.CreateResult(result); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	return result, nil
}
