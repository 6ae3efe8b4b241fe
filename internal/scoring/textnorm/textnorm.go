// Package textnorm folds free text into a canonical form for keyword matching.
//
// Normalization folds full-width forms to their narrow equivalents, applies
// Unicode case folding, replaces punctuation with spaces and collapses runs of
// whitespace, so "Last-Week" and "ＬＡＳＴ　ＷＥＥＫ" both become "last week".
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// Normalize returns the canonical matching form of s.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = width.Fold.String(s)
	// cases.Caser holds state, so one is built per call.
	s = cases.Fold().String(s)

	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsControl(r) {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		b.WriteRune(r)
		space = false
	}
	return strings.TrimSuffix(b.String(), " ")
}

// NormalizeAll normalizes every keyword, dropping the ones that fold to nothing.
func NormalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if n := Normalize(k); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Keyword is a table entry kept in both display and matching form.
type Keyword struct {
	Text string
	Norm string
}

// Compile prepares a keyword table for matching.
func Compile(keywords []string) []Keyword {
	out := make([]Keyword, 0, len(keywords))
	for _, k := range keywords {
		if n := Normalize(k); n != "" {
			out = append(out, Keyword{Text: k, Norm: n})
		}
	}
	return out
}

// Find returns the byte offsets of the non-overlapping occurrences of kw in
// norm. An ASCII keyword edge must sit on a word boundary, so "ago" does not
// match inside "chicago"; a plural or past-tense tail after the keyword is
// allowed.
func Find(norm, kw string) []int {
	if kw == "" {
		return nil
	}
	var offsets []int
	offset := 0
	for offset < len(norm) {
		idx := strings.Index(norm[offset:], kw)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(kw)
		if onBoundary(norm, kw, start, end) {
			offsets = append(offsets, start)
			offset = end
			continue
		}
		offset = start + 1
	}
	return offsets
}

// Contains reports whether kw occurs in norm on word boundaries.
func Contains(norm, kw string) bool {
	return len(Find(norm, kw)) > 0
}

var wordTails = []string{"", "s", "es", "d", "ed", "ing"}

func onBoundary(norm, kw string, start, end int) bool {
	if isWordByte(kw[0]) && start > 0 && isWordByte(norm[start-1]) {
		return false
	}
	if !isWordByte(kw[len(kw)-1]) {
		return true
	}
	tail := end
	for tail < len(norm) && isWordByte(norm[tail]) {
		tail++
	}
	for _, t := range wordTails {
		if norm[end:tail] == t {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// Matches returns the keywords contained in the normalized text, in table order.
func Matches(norm string, table []Keyword) []Keyword {
	var hits []Keyword
	for _, k := range table {
		if Contains(norm, k.Norm) {
			hits = append(hits, k)
		}
	}
	return hits
}

// ContainsAny reports whether the normalized text contains any keyword.
func ContainsAny(norm string, table []Keyword) bool {
	for _, k := range table {
		if Contains(norm, k.Norm) {
			return true
		}
	}
	return false
}

// Negation holds markers that cancel a keyword they directly precede.
type Negation struct {
	markers []string
}

// NewNegation normalizes the markers once.
func NewNegation(markers []string) *Negation {
	return &Negation{markers: NormalizeAll(markers)}
}

// Precedes reports whether prefix ends with a negation marker. English
// markers must be whole words: "casino data" is not negated.
func (n *Negation) Precedes(prefix string) bool {
	p := strings.TrimSuffix(prefix, " ")
	for _, neg := range n.markers {
		if !strings.HasSuffix(p, neg) {
			continue
		}
		if isWordByte(neg[0]) {
			rest := p[:len(p)-len(neg)]
			if rest != "" && !strings.HasSuffix(rest, " ") {
				continue
			}
		}
		return true
	}
	return false
}

// Split counts the plain and the negated occurrences of kw in norm.
func (n *Negation) Split(norm, kw string) (affirmed, negated int) {
	for _, start := range Find(norm, kw) {
		if n.Precedes(norm[:start]) {
			negated++
		} else {
			affirmed++
		}
	}
	return affirmed, negated
}

// Affirmed returns the keywords with at least one occurrence not cancelled by
// a negation marker, in table order.
func (n *Negation) Affirmed(norm string, table []Keyword) []Keyword {
	var hits []Keyword
	for _, k := range table {
		if a, _ := n.Split(norm, k.Norm); a > 0 {
			hits = append(hits, k)
		}
	}
	return hits
}

// Sentences splits raw text into trimmed sentences. A period only ends a
// sentence when followed by whitespace or the end of the text.
func Sentences(s string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if t := strings.TrimSpace(cur.String()); t != "" {
			out = append(out, t)
		}
		cur.Reset()
	}

	for i, r := range s {
		switch r {
		case '。', '！', '？', '!', '?', '；', ';', '\n':
			cur.WriteRune(r)
			flush()
			continue
		case '.':
			cur.WriteRune(r)
			next, _ := utf8.DecodeRuneInString(s[i+1:])
			if i+1 >= len(s) || unicode.IsSpace(next) {
				flush()
			}
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return out
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate shortens s to at most max characters, marking the cut with an ellipsis.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max-1])) + "…"
}
