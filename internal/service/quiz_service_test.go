package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQuizStoresQuestions(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	note := f.note(t, alice.ID, "Cells", "Mitochondria make ATP.")
	f.llm.replies = []string{validQuizJSON}

	quiz, err := f.quizzes.GenerateQuiz(context.Background(), alice.ID, note.ID)
	require.NoError(t, err)

	stored, err := f.quizzes.GetQuiz(alice.ID, quiz.ID)
	require.NoError(t, err)
	questions, err := stored.QuestionList()
	require.NoError(t, err)
	assertValidQuiz(t, questions)
	assert.Equal(t, note.ID, stored.NoteID)

	byNote, err := f.quizzes.ListQuizzes(alice.ID, note.ID)
	require.NoError(t, err)
	assert.Len(t, byNote, 1)
}

func TestGenerateQuizStoresFallbackOnMalformedOutput(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	note := f.note(t, alice.ID, "Cells", "Mitochondria make ATP.")
	f.llm.replies = []string{"I'd rather write a poem."}

	quiz, err := f.quizzes.GenerateQuiz(context.Background(), alice.ID, note.ID)
	require.NoError(t, err)

	view, err := f.quizzes.GetQuizView(alice.ID, quiz.ID)
	require.NoError(t, err)
	assert.True(t, view.Fallback)
	require.Len(t, view.Questions, 1)
	assert.Equal(t, "Quiz generation failed. Please try again.", view.Questions[0].Question)
	assert.Empty(t, view.Questions[0].Options)
}

func TestGenerateQuizProviderFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	note := f.note(t, alice.ID, "Cells", "Mitochondria make ATP.")
	f.llm.err = errors.New("503")

	_, err := f.quizzes.GenerateQuiz(context.Background(), alice.ID, note.ID)
	assert.ErrorIs(t, err, ErrAIUnavailable)

	byNote, err := f.quizzes.ListQuizzes(alice.ID, note.ID)
	require.NoError(t, err)
	assert.Empty(t, byNote)
}

func TestQuizViewHidesAnswers(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	note := f.note(t, alice.ID, "Cells", "Mitochondria make ATP.")
	f.llm.replies = []string{validQuizJSON}

	quiz, err := f.quizzes.GenerateQuiz(context.Background(), alice.ID, note.ID)
	require.NoError(t, err)

	view, err := f.quizzes.GetQuizView(alice.ID, quiz.ID)
	require.NoError(t, err)
	assert.False(t, view.Fallback)
	assert.Equal(t, "Cells", view.NoteTitle)
	require.Len(t, view.Questions, QuizQuestionCount)
	for i, q := range view.Questions {
		assert.Equal(t, i, q.Index)
		assert.Len(t, q.Options, 4)
	}
}

func TestQuizzesAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	note := f.note(t, alice.ID, "Cells", "Mitochondria make ATP.")
	f.llm.replies = []string{validQuizJSON}

	_, err := f.quizzes.GenerateQuiz(context.Background(), bob.ID, note.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, f.llm.prompts)

	quiz, err := f.quizzes.GenerateQuiz(context.Background(), alice.ID, note.ID)
	require.NoError(t, err)

	_, err = f.quizzes.GetQuiz(bob.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.quizzes.GetQuizView(bob.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.quizzes.ListQuizzes(bob.ID, note.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.quizzes.GetQuiz(alice.ID, quiz.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}
