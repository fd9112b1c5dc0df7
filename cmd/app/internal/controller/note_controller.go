package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"study-buddy/internal/service"
	"study-buddy/utilities"
)

type NoteController struct {
	NoteService service.NoteService
	QuizService service.QuizService
	log         *slog.Logger
}

func NewNoteController(noteService service.NoteService, quizService service.QuizService, log *slog.Logger) *NoteController {
	return &NoteController{NoteService: noteService, QuizService: quizService, log: log}
}

// CreateNote handles POST /notes
func (nc *NoteController) CreateNote(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	var req struct {
		Title   string `json:"title" form:"title"`
		Content string `json:"content" form:"content"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid note payload"})
		return
	}
	note, err := nc.NoteService.CreateNote(uid, req.Title, req.Content)
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// ListNotes handles GET /notes
func (nc *NoteController) ListNotes(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	notes, err := nc.NoteService.ListNotes(uid)
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// GetNote handles GET /notes/:id and includes the quizzes generated from it.
func (nc *NoteController) GetNote(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	noteID, err := paramID(c, "id")
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	note, err := nc.NoteService.GetNote(uid, noteID)
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	quizzes, err := nc.QuizService.ListQuizzes(uid, noteID)
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"note": note, "quizzes": quizzes})
}

// Summarize handles POST /notes/:id/summarize
func (nc *NoteController) Summarize(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	noteID, err := paramID(c, "id")
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	note, err := nc.NoteService.Summarize(c.Request.Context(), uid, noteID)
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// GenerateQuiz handles POST /notes/:id/quiz
func (nc *NoteController) GenerateQuiz(c *gin.Context) {
	uid, _ := utilities.CurrentUserID(c)
	noteID, err := paramID(c, "id")
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	quiz, err := nc.QuizService.GenerateQuiz(c.Request.Context(), uid, noteID)
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	view, err := nc.QuizService.GetQuizView(uid, quiz.ID)
	if err != nil {
		respondError(c, nc.log, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}
