package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"study-buddy/internal/llm"
	"study-buddy/internal/model"
)

const (
	// QuizQuestionCount is the number of questions requested per quiz.
	QuizQuestionCount = 3
	optionsPerQuestion = 4

	fallbackQuestionText = "Quiz generation failed. Please try again."
)

const quizPrompt = `Generate %d multiple-choice questions based on the following study notes.
Each question must have exactly 4 answer options and exactly 1 correct answer.
Respond with only a JSON array, no other text, in this shape:
[{"question": "...", "options": ["...", "...", "...", "..."], "answer": "<the correct option, copied exactly>"}]

Notes:
%s`

var errMalformedQuiz = errors.New("malformed quiz output")

// FallbackQuiz is stored when the model output cannot be used. It has no
// options and no answer, so every submission for it scores as incorrect.
func FallbackQuiz() []model.Question {
	return []model.Question{{
		Question: fallbackQuestionText,
		Options:  []string{},
		Answer:   "",
	}}
}

type QuizGenerator struct {
	client llm.Client
	count  int
	log    *slog.Logger
}

func NewQuizGenerator(client llm.Client, log *slog.Logger) *QuizGenerator {
	return &QuizGenerator{client: client, count: QuizQuestionCount, log: log}
}

// Generate asks the model for a quiz on content. Unusable output degrades
// to FallbackQuiz; only a failed provider call returns an error.
func (g *QuizGenerator) Generate(ctx context.Context, content string) ([]model.Question, error) {
	response, err := g.client.Generate(ctx, fmt.Sprintf(quizPrompt, g.count, content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}

	questions, err := ParseQuiz(response, g.count)
	if err != nil {
		g.log.Warn("quiz output rejected, storing fallback quiz", "error", err)
		return FallbackQuiz(), nil
	}
	return questions, nil
}

// ParseQuiz extracts exactly count validated questions from raw model
// output. JSON is tried first, then the lettered "Q1: / A) / Answer: B"
// text layout.
func ParseQuiz(raw string, count int) ([]model.Question, error) {
	questions, err := decodeQuizJSON(raw)
	if err != nil {
		questions = parseLetteredQuiz(raw)
	}
	if len(questions) < count {
		return nil, fmt.Errorf("%w: got %d usable questions, want %d", errMalformedQuiz, len(questions), count)
	}

	questions = questions[:count]
	for i := range questions {
		if err := normalizeQuestion(&questions[i]); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return questions, nil
}

func decodeQuizJSON(raw string) ([]model.Question, error) {
	content := stripCodeFence(raw)

	start, end := strings.Index(content, "["), strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, errMalformedQuiz
	}
	var questions []model.Question
	if err := json.Unmarshal([]byte(content[start:end+1]), &questions); err == nil {
		return questions, nil
	}

	// {"questions": [...]} with trailing prose after the object.
	start, end = strings.Index(content, "{"), strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, errMalformedQuiz
	}
	var wrapped struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedQuiz, err)
	}
	return wrapped.Questions, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	start := 3
	if newline := strings.Index(content[start:], "\n"); newline != -1 {
		start += newline + 1
	}
	if end := strings.Index(content[start:], "```"); end != -1 {
		return strings.TrimSpace(content[start : start+end])
	}
	return strings.TrimSpace(content[start:])
}

var (
	questionLine = regexp.MustCompile(`^(?i)Q\d+\s*[:.)]\s*(.+)$`)
	optionLine   = regexp.MustCompile(`^([A-Da-d])\s*[).:]\s*(.+)$`)
	answerLine   = regexp.MustCompile(`^(?i)(?:correct\s+)?answer\s*:\s*(.+)$`)
)

func parseLetteredQuiz(raw string) []model.Question {
	var (
		questions []model.Question
		current   *model.Question
	)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "*"))
		if line == "" {
			continue
		}
		switch {
		case questionLine.MatchString(line):
			questions = append(questions, model.Question{
				Question: questionLine.FindStringSubmatch(line)[1],
				Options:  []string{},
			})
			current = &questions[len(questions)-1]
		case current == nil:
			continue
		case answerLine.MatchString(line):
			current.Answer = answerLine.FindStringSubmatch(line)[1]
		case optionLine.MatchString(line):
			current.Options = append(current.Options, optionLine.FindStringSubmatch(line)[2])
		}
	}
	return questions
}

// normalizeQuestion trims the fields and resolves an answer given as an
// option letter ("B", "B)", "B) text") into the option text.
func normalizeQuestion(q *model.Question) error {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return fmt.Errorf("%w: empty question", errMalformedQuiz)
	}
	if len(q.Options) != optionsPerQuestion {
		return fmt.Errorf("%w: %d options, want %d", errMalformedQuiz, len(q.Options), optionsPerQuestion)
	}
	q.Options = lo.Map(q.Options, func(option string, _ int) string {
		return strings.TrimSpace(option)
	})

	answer := strings.TrimSpace(q.Answer)
	if answer != "" && lo.Contains(q.Options, answer) {
		q.Answer = answer
		return nil
	}
	letter := strings.TrimRight(answer, ").:")
	if m := optionLine.FindStringSubmatch(answer); m != nil {
		letter = m[1]
	}
	if idx := letterIndex(letter); idx >= 0 {
		q.Answer = q.Options[idx]
		return nil
	}
	return fmt.Errorf("%w: answer %q is not one of the options", errMalformedQuiz, q.Answer)
}

func letterIndex(letter string) int {
	switch strings.ToUpper(letter) {
	case "A":
		return 0
	case "B":
		return 1
	case "C":
		return 2
	case "D":
		return 3
	}
	return -1
}
