package moderation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPipeline(t *testing.T, terms []string, toxicWord string) *Pipeline {
	t.Helper()
	assert := require.New(t)

	lex, err := NewLexicon(terms, "[censored]", testLogger())
	assert.NoError(err)

	path := filepath.Join(t.TempDir(), "model.gob")
	assert.NoError(SaveModel(path, toxicTestModel(toxicWord)))
	classifier := NewClassifier(path, testLogger())

	return NewPipeline(lex, classifier, 0.85, "[message removed due to toxic content]", testLogger())
}

func TestPipelineSanitize(t *testing.T) {
	pipeline := testPipeline(t, []string{"idiot", "buttface"}, "scum")

	testCases := []struct {
		name     string
		input    string
		expected string
		flagged  bool
	}{
		{
			name:     "clean message passes through unchanged",
			input:    "see you at noon",
			expected: "see you at noon",
			flagged:  false,
		},
		{
			name:     "lexical hit masks and flags",
			input:    "you idiot",
			expected: "you [censored]",
			flagged:  true,
		},
		{
			name:     "lexical hit wins even when text is also toxic",
			input:    "buttface scum",
			expected: "[censored] scum",
			flagged:  true,
		},
		{
			name:     "toxic clean text is removed entirely",
			input:    "you absolute scum",
			expected: "[message removed due to toxic content]",
			flagged:  true,
		},
		{
			name:     "empty input short circuits",
			input:    "",
			expected: "",
			flagged:  false,
		},
		{
			name:     "whitespace only input short circuits",
			input:    "   \t ",
			expected: "   \t ",
			flagged:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := require.New(t)

			decision := pipeline.Sanitize(tc.input)
			assert.Equal(tc.expected, decision.Output)
			assert.Equal(tc.flagged, decision.Flagged)
		})
	}
}

func TestPipelineSanitizeIsIdempotent(t *testing.T) {
	assert := require.New(t)
	pipeline := testPipeline(t, []string{"idiot"}, "scum")

	first := pipeline.Sanitize("total idiot")
	assert.True(first.Flagged)

	second := pipeline.Sanitize(first.Output)
	assert.False(second.Flagged)
	assert.Equal(first.Output, second.Output)
}

func TestPipelineDegradesWithoutClassifier(t *testing.T) {
	assert := require.New(t)

	lex, err := NewLexicon([]string{"idiot"}, "[censored]", testLogger())
	assert.NoError(err)
	classifier := NewClassifier(filepath.Join(t.TempDir(), "absent.gob"), testLogger())
	pipeline := NewPipeline(lex, classifier, 0.85, "[message removed due to toxic content]", testLogger())

	decision := pipeline.Sanitize("you absolute scum")
	assert.False(decision.Flagged)
	assert.Equal("you absolute scum", decision.Output)

	decision = pipeline.Sanitize("you idiot")
	assert.True(decision.Flagged)
	assert.Equal("you [censored]", decision.Output)
}
