package evaluation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"idea-workers/internal/models"
)

var (
	numberPattern     = regexp.MustCompile(`\d+`)
	percentPattern    = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*%`)
	amountPattern     = regexp.MustCompile(`\d{1,3}(?:[.,\s]\d{3})+|\d+(?:[.,]\d+)?\s*k\b|\d+`)
	enumeratedLine    = regexp.MustCompile(`(?m)^\s*(?:\d+\s*[.):-]|[-*•])\s*\S`)
	inlineEnumeration = regexp.MustCompile(`(?:^|\s)\d+\s*[.)]\s+\S`)
)

var sequenceWords = []string{"then", "after that", "next", "finally", "puis", "ensuite", "enfin"}

// Corpus is the lower-cased search text used by the priority classifier.
func Corpus(s *models.Submission) string {
	if s == nil {
		return ""
	}
	return normalize(s.ProblemStatement, s.Solution, s.BenefitStatement, string(s.Category), s.Location)
}

// FullText joins every free-text field of the submission.
func FullText(s *models.Submission) string {
	if s == nil {
		return ""
	}
	return normalize(
		s.ProblemStatement,
		s.CurrentProcess,
		s.Solution,
		s.BenefitStatement,
		s.OperationalNeeds,
		string(s.Category),
		s.Location,
		s.TargetAudience,
	)
}

func normalize(parts ...string) string {
	fields := make([]string, 0, len(parts)*8)
	for _, p := range parts {
		fields = append(fields, strings.Fields(strings.ToLower(p))...)
	}
	return strings.Join(fields, " ")
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// containsAny reports whether any term occurs as a substring of text.
func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// containsTerm reports whether term occurs in text bounded by non-letters on
// both sides, so "fes" does not match "professional".
func containsTerm(text, term string) bool {
	if term == "" {
		return false
	}
	for start := 0; start < len(text); {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		idx += start
		end := idx + len(term)
		if boundaryBefore(text, idx) && boundaryAfter(text, end) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[idx:])
		start = idx + size
	}
	return false
}

func containsAnyTerm(text string, terms []string) bool {
	for _, t := range terms {
		if containsTerm(text, t) {
			return true
		}
	}
	return false
}

func countTerms(text string, terms []string) int {
	n := 0
	for _, t := range terms {
		if containsTerm(text, t) {
			n++
		}
	}
	return n
}

func boundaryBefore(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:idx])
	return !unicode.IsLetter(r)
}

func boundaryAfter(text string, end int) bool {
	if end >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return !unicode.IsLetter(r)
}

func hasNumber(text string) bool {
	return numberPattern.MatchString(text)
}

// extractAmounts returns every integer amount embedded in text, honouring
// thousands separators ("10,000", "10 000") and a "k" suffix ("5k").
func extractAmounts(text string) []int {
	matches := amountPattern.FindAllString(strings.ToLower(text), -1)
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		m = strings.TrimSpace(m)
		multiplier := 1.0
		if strings.HasSuffix(m, "k") {
			multiplier = 1000
			m = strings.TrimSpace(strings.TrimSuffix(m, "k"))
			m = strings.ReplaceAll(m, ",", ".")
			v, err := strconv.ParseFloat(m, 64)
			if err != nil {
				continue
			}
			out = append(out, int(v*multiplier))
			continue
		}
		m = strings.NewReplacer(",", "", " ", "", ".", "").Replace(m)
		v, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// countSteps estimates how many steps a process description lists.
func countSteps(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	lines := len(enumeratedLine.FindAllStringIndex(text, -1))
	inline := len(inlineEnumeration.FindAllStringIndex(text, -1))

	lowered := lower(text)
	sequenced := 0
	for _, w := range sequenceWords {
		for start := 0; ; {
			idx := strings.Index(lowered[start:], w)
			if idx < 0 {
				break
			}
			idx += start
			if boundaryBefore(lowered, idx) && boundaryAfter(lowered, idx+len(w)) {
				sequenced++
			}
			start = idx + len(w)
		}
	}
	if sequenced > 0 {
		sequenced++
	}

	sentences := 0
	for _, part := range strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == ';' || r == '\n' }) {
		if runeLen(strings.TrimSpace(part)) >= 10 {
			sentences++
		}
	}
	if sentences > 1 {
		sentences = sentences / 2
	}

	return maxInt(lines, inline, sequenced, sentences, 1)
}

func maxInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
