package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"study-buddy/internal/model"
	"study-buddy/internal/repository"
)

const maxTitleLength = 120

type NoteService interface {
	CreateNote(userID uint, title, content string) (*model.Note, error)
	GetNote(userID, noteID uint) (*model.Note, error)
	ListNotes(userID uint) ([]model.Note, error)
	Summarize(ctx context.Context, userID, noteID uint) (*model.Note, error)
}

type noteService struct {
	noteRepo   repository.NoteRepository
	summarizer *Summarizer
	log        *slog.Logger
}

func NewNoteService(noteRepo repository.NoteRepository, summarizer *Summarizer, log *slog.Logger) NoteService {
	return &noteService{noteRepo: noteRepo, summarizer: summarizer, log: log}
}

func (s *noteService) CreateNote(userID uint, title, content string) (*model.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, invalid(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if strings.TrimSpace(content) == "" {
		return nil, invalid("content is required")
	}

	note := &model.Note{UserID: userID, Title: title, Content: content}
	if err := s.noteRepo.CreateNote(note); err != nil {
		return nil, fmt.Errorf("save note: %w", err)
	}
	return note, nil
}

// GetNote returns the note only if it belongs to userID.
func (s *noteService) GetNote(userID, noteID uint) (*model.Note, error) {
	note, err := s.noteRepo.GetNoteByID(noteID)
	if err != nil {
		return nil, lookupError("note", err)
	}
	if err := ownedBy(note.UserID, userID); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) ListNotes(userID uint) ([]model.Note, error) {
	return s.noteRepo.GetNotesByUser(userID)
}

// Summarize attaches an AI summary to the note. When the model fails the
// note keeps its previous summary.
func (s *noteService) Summarize(ctx context.Context, userID, noteID uint) (*model.Note, error) {
	note, err := s.GetNote(userID, noteID)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizer.Summarize(ctx, note.Content)
	if err != nil {
		s.log.Error("summarize note", "note_id", noteID, "error", err)
		return nil, err
	}

	if err := s.noteRepo.UpdateSummary(note.ID, summary); err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}
	note.Summary = &summary
	return note, nil
}
