package service

import (
	"study-buddy/internal/model"
	"study-buddy/internal/repository"
)

type ResultService interface {
	GetResult(userID, resultID uint) (*model.Result, error)
	ListResultsForQuiz(userID, quizID uint) ([]model.Result, error)
}

type resultService struct {
	resultRepo repository.ResultRepository
	quizzes    QuizService
}

func NewResultService(resultRepo repository.ResultRepository, quizzes QuizService) ResultService {
	return &resultService{resultRepo: resultRepo, quizzes: quizzes}
}

// GetResult returns the result only if it belongs to userID. Results are
// never modified, so repeated reads return the same values.
func (s *resultService) GetResult(userID, resultID uint) (*model.Result, error) {
	result, err := s.resultRepo.GetResultByID(resultID)
	if err != nil {
		return nil, lookupError("result", err)
	}
	if err := ownedBy(result.UserID, userID); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *resultService) ListResultsForQuiz(userID, quizID uint) ([]model.Result, error) {
	if _, err := s.quizzes.GetQuiz(userID, quizID); err != nil {
		return nil, err
	}
	return s.resultRepo.GetResultsByQuiz(quizID)
}
