package service

import (
	"context"
	"fmt"
	"strings"

	"study-buddy/internal/llm"
)

// FeedbackInput describes one scored attempt.
type FeedbackInput struct {
	NoteTitle      string
	Questions      []string
	UserAnswers    []string
	CorrectAnswers []string
	Score          int
	Total          int
}

type FeedbackGenerator struct {
	client llm.Client
}

func NewFeedbackGenerator(client llm.Client) *FeedbackGenerator {
	return &FeedbackGenerator{client: client}
}

// Generate asks the model for a short coaching paragraph. The text is only
// trimmed; any non-empty answer is returned as is.
func (g *FeedbackGenerator) Generate(ctx context.Context, in FeedbackInput) (string, error) {
	response, err := g.client.Generate(ctx, buildFeedbackPrompt(in))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	feedback := strings.TrimSpace(response)
	if feedback == "" {
		return "", ErrAIUnavailable
	}
	return feedback, nil
}

func buildFeedbackPrompt(in FeedbackInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A student just took a quiz on their study notes titled %q and scored %d out of %d.\n\n", in.NoteTitle, in.Score, in.Total)
	for i, question := range in.Questions {
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, question)
		fmt.Fprintf(&b, "Student answer: %s\n", answerOrBlank(in.UserAnswers, i))
		fmt.Fprintf(&b, "Correct answer: %s\n\n", answerOrBlank(in.CorrectAnswers, i))
	}
	b.WriteString("Write one short, encouraging paragraph of feedback for the student. ")
	b.WriteString("Point out which topics they should review and suggest how to study them. ")
	b.WriteString("Do not repeat the questions verbatim.")
	return b.String()
}

func answerOrBlank(answers []string, i int) string {
	if i < len(answers) && answers[i] != "" {
		return answers[i]
	}
	return "(no answer)"
}
