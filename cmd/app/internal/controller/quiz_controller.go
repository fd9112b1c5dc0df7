package controller

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"study-buddy/internal/service"
	"study-buddy/utilities"
)

type QuizController struct {
	QuizService    service.QuizService
	AttemptService service.AttemptService
	ResultService  service.ResultService
	log            *slog.Logger
}

func NewQuizController(
	quizService service.QuizService,
	attemptService service.AttemptService,
	resultService service.ResultService,
	log *slog.Logger,
) *QuizController {
	return &QuizController{
		QuizService:    quizService,
		AttemptService: attemptService,
		ResultService:  resultService,
		log:            log,
	}
}

// GetQuiz handles GET /quizzes/:id and GET /quizzes/:id/take. Answers are
// never included.
func (qc *QuizController) GetQuiz(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	quizID, err := paramID(c, "id")
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	view, err := qc.QuizService.GetQuizView(uid, quizID)
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitQuiz handles POST /quizzes/:id/take
func (qc *QuizController) SubmitQuiz(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	quizID, err := paramID(c, "id")
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	answers, err := bindAnswers(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := qc.AttemptService.SubmitAttempt(c.Request.Context(), uid, quizID, answers)
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	c.JSON(http.StatusCreated, resultBody(result))
}

// ListResults handles GET /quizzes/:id/results
func (qc *QuizController) ListResults(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	quizID, err := paramID(c, "id")
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	results, err := qc.ResultService.ListResultsForQuiz(uid, quizID)
	if err != nil {
		respondError(c, qc.log, err)
		return
	}
	body := make([]gin.H, 0, len(results))
	for i := range results {
		body = append(body, resultBody(&results[i]))
	}
	c.JSON(http.StatusOK, gin.H{"results": body})
}

// bindAnswers reads answers either from a JSON body {"answers": {"0": "B"}}
// or from form fields q0, q1, ...
func bindAnswers(c *gin.Context) (map[int]string, error) {
	answers := map[int]string{}

	if c.ContentType() == binding.MIMEJSON {
		var req struct {
			Answers map[string]string `json:"answers"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, fmt.Errorf("invalid answers payload")
		}
		for key, value := range req.Answers {
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("invalid question index %q", key)
			}
			answers[idx] = value
		}
		return answers, nil
	}

	if err := c.Request.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form")
	}
	for key, values := range c.Request.PostForm {
		rest, ok := strings.CutPrefix(key, "q")
		if !ok || len(values) == 0 {
			continue
		}
		idx, err := strconv.Atoi(rest)
		if err != nil || idx < 0 {
			continue
		}
		answers[idx] = values[0]
	}
	return answers, nil
}
