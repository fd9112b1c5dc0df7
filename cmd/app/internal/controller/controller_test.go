package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"study-buddy/internal/config"
	"study-buddy/internal/db"
	"study-buddy/internal/repository"
	"study-buddy/internal/service"
	"study-buddy/utilities"
)

const quizJSON = `[
	{"question": "Q1", "options": ["A", "B", "C", "D"], "answer": "B"},
	{"question": "Q2", "options": ["A", "B", "C", "D"], "answer": "A"},
	{"question": "Q3", "options": ["A", "B", "C", "D"], "answer": "C"}
]`

type scriptedLLM struct {
	reply string
	err   error
}

func (s *scriptedLLM) Generate(context.Context, string) (string, error) {
	return s.reply, s.err
}

type testServer struct {
	router *gin.Engine
	llm    *scriptedLLM
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DBConfig{Driver: "sqlite"}
	cfg.Names.StudyBuddy = filepath.Join(t.TempDir(), "http.db")
	conn, err := db.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	t.Cleanup(func() { db.Close(conn, log) })

	fake := &scriptedLLM{}
	tokens := utilities.NewJWTManager(config.AuthenticationConfig{
		AccessSecret:   "a",
		RefreshSecret:  "r",
		SessionTimeout: 60,
		RefreshTimeout: 24,
	})

	users := repository.NewUserRepository(conn)
	noteRepo := repository.NewNoteRepository(conn)
	quizRepo := repository.NewQuizRepository(conn)
	resultRepo := repository.NewResultRepository(conn)

	notes := service.NewNoteService(noteRepo, service.NewSummarizer(fake), log)
	quizzes := service.NewQuizService(quizRepo, notes, service.NewQuizGenerator(fake, log), log)
	results := service.NewResultService(resultRepo, quizzes)
	svc := Services{
		Auth:      service.NewAuthService(users, tokens, bcrypt.MinCost),
		Notes:     notes,
		Quizzes:   quizzes,
		Attempts:  service.NewAttemptService(quizzes, noteRepo, resultRepo, service.NewFeedbackGenerator(fake), log),
		Results:   results,
		Dashboard: service.NewDashboardService(noteRepo, resultRepo),
		Reports:   service.NewReportService(results, quizzes, notes),
	}

	r := gin.New()
	RegisterRoutes(r, svc, tokens, CookieSettings{Name: "session"}, func(ctx context.Context) error {
		return db.Ping(ctx, conn)
	}, log)
	return &testServer{router: r, llm: fake}
}

func (s *testServer) do(t *testing.T, method, path, token, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doJSON(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	return s.do(t, method, path, token, "application/json", body)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()
	creds := `{"username":"` + username + `","password":"pw12345"}`
	w := s.doJSON(t, http.MethodPost, "/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.doJSON(t, http.MethodPost, "/auth/login", "", creds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), "session=")
	tokens := decode(t, w)["tokens"].(map[string]any)
	return tokens["access_token"].(string)
}

func TestStudyFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "alice")

	w := s.doJSON(t, http.MethodPost, "/notes", token, `{"title":"Cells","content":"Mitochondria make ATP."}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	noteID := int(decode(t, w)["id"].(float64))
	notePath := "/notes/" + itoa(noteID)

	s.llm.reply = "- ATP comes from mitochondria"
	w = s.doJSON(t, http.MethodPost, notePath+"/summarize", token, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "- ATP comes from mitochondria", decode(t, w)["summary"])

	s.llm.reply = quizJSON
	w = s.doJSON(t, http.MethodPost, notePath+"/quiz", token, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), `"answer"`)
	quiz := decode(t, w)
	quizPath := "/quizzes/" + itoa(int(quiz["id"].(float64)))
	assert.Len(t, quiz["questions"], 3)

	w = s.doJSON(t, http.MethodGet, quizPath+"/take", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"answer"`)

	s.llm.reply = "Review question 2."
	form := url.Values{"q0": {"B"}, "q1": {"B"}, "q2": {"C"}}
	w = s.do(t, http.MethodPost, quizPath+"/take", token, "application/x-www-form-urlencoded", form.Encode())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	result := decode(t, w)
	assert.EqualValues(t, 2, result["score"])
	assert.EqualValues(t, 3, result["total"])
	assert.EqualValues(t, 66.67, result["percentage"])
	assert.Equal(t, "Review question 2.", result["feedback"])

	w = s.doJSON(t, http.MethodPost, quizPath+"/take", token, `{"answers":{"0":"A","1":"A","2":"A"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resultPath := "/results/" + itoa(int(decode(t, w)["id"].(float64)))

	w = s.doJSON(t, http.MethodGet, resultPath, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["score"])

	w = s.doJSON(t, http.MethodGet, resultPath+"/report", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	w = s.doJSON(t, http.MethodGet, quizPath+"/results", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["results"], 2)

	w = s.doJSON(t, http.MethodGet, "/dashboard", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode(t, w)
	assert.Len(t, dash["notes"], 1)
	assert.Len(t, dash["results"], 2)
	assert.EqualValues(t, 50, dash["average"])

	w = s.doJSON(t, http.MethodGet, notePath, token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["quizzes"], 1)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	alice := s.login(t, "alice")
	bob := s.login(t, "bob")

	w := s.doJSON(t, http.MethodPost, "/notes", alice, `{"title":"Cells","content":"ATP"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	notePath := "/notes/" + itoa(int(decode(t, w)["id"].(float64)))

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
		error  string
	}{
		{"no token", http.MethodGet, "/dashboard", "", "", http.StatusUnauthorized, ""},
		{"other user", http.MethodGet, notePath, bob, "", http.StatusForbidden, "unauthorized"},
		{"missing note", http.MethodGet, "/notes/999", alice, "", http.StatusNotFound, "not found"},
		{"bad id", http.MethodGet, "/notes/abc", alice, "", http.StatusBadRequest, ""},
		{"empty title", http.MethodPost, "/notes", alice, `{"title":"","content":"x"}`, http.StatusBadRequest, ""},
		{"duplicate user", http.MethodPost, "/auth/register", "", `{"username":"alice","password":"x"}`, http.StatusConflict, ""},
		{"bad password", http.MethodPost, "/auth/login", "", `{"username":"alice","password":"nope"}`, http.StatusUnauthorized, "invalid credentials"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.doJSON(t, tc.method, tc.path, tc.token, tc.body)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.error != "" {
				assert.Equal(t, tc.error, decode(t, w)["error"])
			}
		})
	}
}

func TestAIUnavailableMapsTo503(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "alice")

	w := s.doJSON(t, http.MethodPost, "/notes", token, `{"title":"Cells","content":"ATP"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	notePath := "/notes/" + itoa(int(decode(t, w)["id"].(float64)))

	s.llm.reply = quizJSON
	w = s.doJSON(t, http.MethodPost, notePath+"/quiz", token, "")
	require.Equal(t, http.StatusCreated, w.Code)
	quizPath := "/quizzes/" + itoa(int(decode(t, w)["id"].(float64)))

	s.llm.err = errors.New("down")
	w = s.doJSON(t, http.MethodPost, quizPath+"/take", token, `{"answers":{"0":"B"}}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "AI service unavailable, try again", decode(t, w)["error"])

	w = s.doJSON(t, http.MethodGet, quizPath+"/results", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["results"])

	w = s.doJSON(t, http.MethodPost, quizPath+"/take", token, `{"answers":{"x":"B"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCookieSessionAndLogout(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "alice")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.doJSON(t, http.MethodPost, "/auth/logout", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.doJSON(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
