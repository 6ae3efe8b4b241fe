// internal/scoring/maturity/evidence.go
package maturity

import "idea-scoring/internal/scoring/textnorm"

// MaxEvidence is the number of quotes kept per dimension.
const MaxEvidence = 3

type quote struct {
	text        string
	key         string
	specificity int
	length      int
	seq         int
}

// outranks orders quotes by specificity, then length, then first seen.
func (q quote) outranks(o quote) bool {
	if q.specificity != o.specificity {
		return q.specificity > o.specificity
	}
	if q.length != o.length {
		return q.length > o.length
	}
	return q.seq < o.seq
}

// evidenceArena keeps the best quotes in rank order without ever holding more
// than its capacity.
type evidenceArena struct {
	capacity int
	display  int
	items    []quote
	seq      int
}

func newEvidenceArena(capacity, displayLength int) *evidenceArena {
	return &evidenceArena{
		capacity: capacity,
		display:  displayLength,
		items:    make([]quote, 0, capacity),
	}
}

// Offer inserts a candidate if it ranks inside the arena, evicting the weakest
// entry when full. Duplicates of a kept quote are ignored.
func (a *evidenceArena) Offer(text string, specificity int) bool {
	key := textnorm.Normalize(text)
	if key == "" {
		return false
	}
	for _, it := range a.items {
		if it.key == key {
			return false
		}
	}

	a.seq++
	q := quote{
		text:        text,
		key:         key,
		specificity: specificity,
		length:      textnorm.RuneLen(text),
		seq:         a.seq,
	}

	pos := len(a.items)
	for i, it := range a.items {
		if q.outranks(it) {
			pos = i
			break
		}
	}
	if pos >= a.capacity {
		return false
	}

	if len(a.items) < a.capacity {
		a.items = append(a.items, quote{})
	}
	copy(a.items[pos+1:], a.items[pos:len(a.items)-1])
	a.items[pos] = q
	return true
}

// Quotes returns the kept quotes, best first, trimmed to the display length.
func (a *evidenceArena) Quotes() []string {
	out := make([]string, 0, len(a.items))
	for _, it := range a.items {
		out = append(out, textnorm.Truncate(it.text, a.display))
	}
	return out
}

func (a *evidenceArena) Len() int {
	return len(a.items)
}
