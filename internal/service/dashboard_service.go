package service

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/samber/lo"

	"study-buddy/internal/model"
	"study-buddy/internal/repository"
)

// DashboardResultLimit is how many recent results feed the trend.
const DashboardResultLimit = 10

type TrendPoint struct {
	ResultID   uint      `json:"result_id"`
	QuizID     uint      `json:"quiz_id"`
	Score      int       `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
}

type Dashboard struct {
	Notes   []model.Note `json:"notes"`
	Results []TrendPoint `json:"results"`
	Average float64      `json:"average"`
}

type DashboardService interface {
	GetDashboard(userID uint) (*Dashboard, error)
}

type dashboardService struct {
	noteRepo   repository.NoteRepository
	resultRepo repository.ResultRepository
}

func NewDashboardService(noteRepo repository.NoteRepository, resultRepo repository.ResultRepository) DashboardService {
	return &dashboardService{noteRepo: noteRepo, resultRepo: resultRepo}
}

func (s *dashboardService) GetDashboard(userID uint) (*Dashboard, error) {
	notes, err := s.noteRepo.GetNotesByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	recent, err := s.resultRepo.GetRecentResultsByUser(userID, DashboardResultLimit)
	if err != nil {
		return nil, fmt.Errorf("load results: %w", err)
	}

	points, average := Trend(recent)
	return &Dashboard{Notes: notes, Results: points, Average: average}, nil
}

// Trend turns results given newest first into chronological points with
// percentages rounded to 2 decimals, plus their rounded mean (0 when empty).
func Trend(newestFirst []model.Result) ([]TrendPoint, float64) {
	chronological := slices.Clone(newestFirst)
	slices.Reverse(chronological)

	points := lo.Map(chronological, func(r model.Result, _ int) TrendPoint {
		return TrendPoint{
			ResultID:   r.ID,
			QuizID:     r.QuizID,
			Score:      r.Score,
			Total:      r.Total,
			Percentage: round2(r.Percentage()),
			CreatedAt:  r.CreatedAt,
		}
	})
	if len(points) == 0 {
		return points, 0
	}

	sum := lo.SumBy(points, func(p TrendPoint) float64 { return p.Percentage })
	return points, round2(sum / float64(len(points)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
