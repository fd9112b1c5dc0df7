package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"study-buddy/internal/config"
	"study-buddy/internal/db"
	"study-buddy/internal/model"
	"study-buddy/internal/repository"
	"study-buddy/utilities"
)

// fakeLLM replays replies in order and repeats the last one.
type fakeLLM struct {
	replies []string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

// fixture wires every service against a throwaway sqlite database and a
// single fake model shared by all AI-backed components.
type fixture struct {
	conn      *gorm.DB
	llm       *fakeLLM
	users     repository.UserRepository
	noteRepo  repository.NoteRepository
	quizRepo  repository.QuizRepository
	results   repository.ResultRepository
	auth      AuthService
	notes     NoteService
	quizzes   QuizService
	attempts  AttemptService
	resultSvc ResultService
	dashboard DashboardService
	reports   ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := config.DBConfig{Driver: "sqlite"}
	cfg.Names.StudyBuddy = filepath.Join(t.TempDir(), "service.db")
	conn, err := db.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() { db.Close(conn, discardLogger()) })

	f := &fixture{
		conn:     conn,
		llm:      &fakeLLM{},
		users:    repository.NewUserRepository(conn),
		noteRepo: repository.NewNoteRepository(conn),
		quizRepo: repository.NewQuizRepository(conn),
		results:  repository.NewResultRepository(conn),
	}

	tokens := utilities.NewJWTManager(config.AuthenticationConfig{
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		SessionTimeout: 60,
		RefreshTimeout: 24,
	})
	log := discardLogger()

	f.auth = NewAuthService(f.users, tokens, bcrypt.MinCost)
	f.notes = NewNoteService(f.noteRepo, NewSummarizer(f.llm), log)
	f.quizzes = NewQuizService(f.quizRepo, f.notes, NewQuizGenerator(f.llm, log), log)
	f.attempts = NewAttemptService(f.quizzes, f.noteRepo, f.results, NewFeedbackGenerator(f.llm), log)
	f.resultSvc = NewResultService(f.results, f.quizzes)
	f.dashboard = NewDashboardService(f.noteRepo, f.results)
	f.reports = NewReportService(f.resultSvc, f.quizzes, f.notes)
	return f
}

func (f *fixture) user(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := f.auth.Register(username, "password123")
	require.NoError(t, err)
	return user
}

func (f *fixture) note(t *testing.T, userID uint, title, content string) *model.Note {
	t.Helper()
	note, err := f.notes.CreateNote(userID, title, content)
	require.NoError(t, err)
	return note
}

// storedQuiz writes a quiz directly, bypassing generation.
func (f *fixture) storedQuiz(t *testing.T, userID, noteID uint, questions []model.Question) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{UserID: userID, NoteID: noteID}
	require.NoError(t, quiz.SetQuestions(questions))
	require.NoError(t, f.quizRepo.CreateQuiz(quiz))
	return quiz
}

func (f *fixture) resultCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.conn.Model(&model.Result{}).Count(&n).Error)
	return n
}
