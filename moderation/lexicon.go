package moderation

import (
	"bufio"
	"log/slog"
	"os"
	"sort"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Match is one whole-word lexicon hit inside a scanned text, expressed as a
// half-open rune span [Start, End).
type Match struct {
	Term  string
	Start int
	End   int
}

// Lexicon scans text for banned terms and masks the spans they cover.
// Matching is case-insensitive and whole-word: a term surrounded by letters
// or digits does not count, so "ass" never fires inside "class".
type Lexicon struct {
	machine *goahocorasick.Machine
	token   string
	size    int
	log     *slog.Logger
}

// NewLexicon builds a scanner over the given terms. Blank and duplicate
// entries are skipped with a warning. An empty term set is valid and scans
// to zero matches.
func NewLexicon(terms []string, token string, log *slog.Logger) (*Lexicon, error) {
	seen := make(map[string]struct{}, len(terms))
	dict := make([][]rune, 0, len(terms))
	for _, term := range terms {
		normalized := strings.ToLower(strings.TrimSpace(term))
		if normalized == "" {
			log.Warn("skipping blank lexicon entry")
			continue
		}
		if _, ok := seen[normalized]; ok {
			log.Warn("skipping duplicate lexicon entry", slog.String("term", normalized))
			continue
		}
		seen[normalized] = struct{}{}
		dict = append(dict, []rune(normalized))
	}

	lex := &Lexicon{token: token, size: len(dict), log: log}
	if len(dict) == 0 {
		return lex, nil
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(dict); err != nil {
		return nil, err
	}
	lex.machine = machine
	return lex, nil
}

// LoadLexicon reads one term per line from path, ignoring blank lines and
// lines starting with '#'. A missing file yields an empty lexicon so the
// service can run unfiltered rather than refuse to start.
func LoadLexicon(path, token string, log *slog.Logger) (*Lexicon, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("lexicon file not found, lexical filtering disabled", slog.String("path", path))
			return NewLexicon(nil, token, log)
		}
		return nil, err
	}
	defer file.Close()

	var terms []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log.Info("lexicon loaded", slog.String("path", path), slog.Int("terms", len(terms)))
	return NewLexicon(terms, token, log)
}

// Size reports the number of distinct terms loaded.
func (l *Lexicon) Size() int { return l.size }

// Scan returns every whole-word match in text, sorted by start position.
func (l *Lexicon) Scan(text string) []Match {
	if l.machine == nil || text == "" {
		return nil
	}

	runes := []rune(text)
	lowered := make([]rune, len(runes))
	for i, r := range runes {
		lowered[i] = unicode.ToLower(r)
	}

	terms := l.machine.MultiPatternSearch(lowered, false)
	matches := make([]Match, 0, len(terms))
	for _, term := range terms {
		start := term.Pos
		end := start + len(term.Word)
		if start > 0 && isWordRune(runes[start-1]) {
			continue
		}
		if end < len(runes) && isWordRune(runes[end]) {
			continue
		}
		matches = append(matches, Match{Term: string(term.Word), Start: start, End: end})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Start == matches[j].Start {
			return matches[i].End > matches[j].End
		}
		return matches[i].Start < matches[j].Start
	})
	return matches
}

// Mask replaces every matched span with the redaction token. Overlapping
// spans are merged first so a rune is never replaced twice. The second
// return reports whether anything was masked.
func (l *Lexicon) Mask(text string) (string, bool) {
	matches := l.Scan(text)
	if len(matches) == 0 {
		return text, false
	}

	spans := mergeSpans(matches)
	runes := []rune(text)

	var b strings.Builder
	cursor := 0
	for _, span := range spans {
		b.WriteString(string(runes[cursor:span.Start]))
		b.WriteString(l.token)
		cursor = span.End
	}
	b.WriteString(string(runes[cursor:]))
	return b.String(), true
}

// mergeSpans collapses overlapping or touching match spans, assuming the
// input is sorted by start position.
func mergeSpans(matches []Match) []Match {
	merged := make([]Match, 0, len(matches))
	for _, m := range matches {
		if len(merged) > 0 && m.Start <= merged[len(merged)-1].End {
			if m.End > merged[len(merged)-1].End {
				merged[len(merged)-1].End = m.End
			}
			continue
		}
		merged = append(merged, m)
	}
	return merged
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
