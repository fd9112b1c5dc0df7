package service

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// ReportService renders a single quiz result as a PDF document.
type ReportService interface {
	ResultReport(userID, resultID uint) ([]byte, error)
}

type reportService struct {
	results ResultService
	quizzes QuizService
	notes   NoteService
}

func NewReportService(results ResultService, quizzes QuizService, notes NoteService) ReportService {
	return &reportService{results: results, quizzes: quizzes, notes: notes}
}

func (s *reportService) ResultReport(userID, resultID uint) ([]byte, error) {
	result, err := s.results.GetResult(userID, resultID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizzes.GetQuiz(userID, result.QuizID)
	if err != nil {
		return nil, err
	}
	note, err := s.notes.GetNote(userID, quiz.NoteID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Quiz result", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, tr("Study Buddy quiz result"))
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, tr("Note: "+note.Title))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Score: %d / %d (%.2f%%)", result.Score, result.Total, round2(result.Percentage())))
	pdf.Ln(8)
	pdf.Cell(0, 8, "Taken: "+result.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(14)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Feedback")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 6, tr(result.Feedback), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
