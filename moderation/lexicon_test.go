package moderation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLexiconMask(t *testing.T) {
	testCases := []struct {
		name     string
		terms    []string
		input    string
		expected string
		hit      bool
	}{
		{
			name:     "single banned word is replaced",
			terms:    []string{"idiot"},
			input:    "you idiot",
			expected: "you [censored]",
			hit:      true,
		},
		{
			name:     "matching is case insensitive",
			terms:    []string{"idiot"},
			input:    "you IDIOT!",
			expected: "you [censored]!",
			hit:      true,
		},
		{
			name:     "term inside a larger word does not match",
			terms:    []string{"ass"},
			input:    "the class is full",
			expected: "the class is full",
			hit:      false,
		},
		{
			name:     "term bounded by punctuation matches",
			terms:    []string{"ass"},
			input:    "what an ass.",
			expected: "what an [censored].",
			hit:      true,
		},
		{
			name:     "multi word phrase is masked as one span",
			terms:    []string{"son of a gun"},
			input:    "you son of a gun!",
			expected: "you [censored]!",
			hit:      true,
		},
		{
			name:     "overlapping terms collapse to one token",
			terms:    []string{"butt", "buttface", "face"},
			input:    "hello buttface",
			expected: "hello [censored]",
			hit:      true,
		},
		{
			name:     "several distinct hits are each masked",
			terms:    []string{"idiot", "fool"},
			input:    "idiot meets fool",
			expected: "[censored] meets [censored]",
			hit:      true,
		},
		{
			name:     "clean text is untouched",
			terms:    []string{"idiot"},
			input:    "have a nice day",
			expected: "have a nice day",
			hit:      false,
		},
		{
			name:     "empty lexicon never matches",
			terms:    nil,
			input:    "anything at all",
			expected: "anything at all",
			hit:      false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := require.New(t)

			lex, err := NewLexicon(tc.terms, "[censored]", testLogger())
			assert.NoError(err)

			got, hit := lex.Mask(tc.input)
			assert.Equal(tc.expected, got)
			assert.Equal(tc.hit, hit)
		})
	}
}

func TestLexiconMaskIsIdempotent(t *testing.T) {
	assert := require.New(t)

	lex, err := NewLexicon([]string{"idiot"}, "[censored]", testLogger())
	assert.NoError(err)

	once, hit := lex.Mask("you idiot")
	assert.True(hit)

	twice, hit := lex.Mask(once)
	assert.False(hit)
	assert.Equal(once, twice)
}

func TestNewLexiconSkipsBlankAndDuplicateEntries(t *testing.T) {
	assert := require.New(t)

	lex, err := NewLexicon([]string{"idiot", "", "  ", "IDIOT", "fool"}, "[censored]", testLogger())
	assert.NoError(err)
	assert.Equal(2, lex.Size())
}

func TestLoadLexicon(t *testing.T) {
	assert := require.New(t)

	path := filepath.Join(t.TempDir(), "lexicon.txt")
	content := "# banned terms\nidiot\n\nfool\n"
	assert.NoError(os.WriteFile(path, []byte(content), 0o600))

	lex, err := LoadLexicon(path, "[censored]", testLogger())
	assert.NoError(err)
	assert.Equal(2, lex.Size())

	masked, hit := lex.Mask("what a fool")
	assert.True(hit)
	assert.Equal("what a [censored]", masked)
}

func TestLoadLexiconMissingFileYieldsEmptySet(t *testing.T) {
	assert := require.New(t)

	lex, err := LoadLexicon(filepath.Join(t.TempDir(), "absent.txt"), "[censored]", testLogger())
	assert.NoError(err)
	assert.Equal(0, lex.Size())

	got, hit := lex.Mask("anything")
	assert.False(hit)
	assert.Equal("anything", got)
}
