// internal/scoring/maturity/signals.go
package maturity

import (
	"runtime"
	"strings"
	"sync"

	"idea-scoring/internal/models"
	"idea-scoring/internal/scoring/textnorm"
)

type compiledSignalTable struct {
	Family   SignalFamily
	Valid    bool
	Keywords []textnorm.Keyword
}

var (
	compiledSignals   = compileSignalTables()
	negation          = textnorm.NewNegation(negationMarkers)
)

func compileSignalTables() []compiledSignalTable {
	out := make([]compiledSignalTable, 0, len(signalTables))
	for _, t := range signalTables {
		out = append(out, compiledSignalTable{
			Family:   t.Family,
			Valid:    t.Valid,
			Keywords: textnorm.Compile(t.Keywords),
		})
	}
	return out
}

// SignalMatch is one family hit inside one message, kept as a potential evidence quote.
type SignalMatch struct {
	MessageIndex int          `json:"messageIndex"`
	AgentID      string       `json:"agentId"`
	Family       SignalFamily `json:"family"`
	Valid        bool         `json:"valid"`
	Keyword      string       `json:"keyword"`
	Quote        string       `json:"quote"`
}

type sentence struct {
	Raw  string
	Norm string
}

// ScannedMessage is a message in matching form with the families it carries.
type ScannedMessage struct {
	Index     int
	AgentID   string
	Raw       string
	Norm      string
	Sentences []sentence
	Families  map[SignalFamily]bool
	Matches   []SignalMatch
}

// SignalReport is the session-wide tally plus every matched span.
type SignalReport struct {
	Valid    models.ValidSignals
	Invalid  models.InvalidSignals
	Matches  []SignalMatch
	Messages []ScannedMessage
}

// parallelThreshold is the message count from which scans fan out to goroutines.
const parallelThreshold = 16

// ExtractSignals scans every message for valid and invalid signal families.
// A family is counted at most once per message. The result depends only on the
// input, in message order.
func ExtractSignals(messages []models.DiscussionMessage) *SignalReport {
	scanned := make([]ScannedMessage, len(messages))
	forEachIndex(len(messages), func(i int) {
		scanned[i] = scanMessage(i, messages[i])
	})

	report := &SignalReport{Messages: scanned}
	for i := range scanned {
		for family := range scanned[i].Families {
			report.count(family)
		}
		report.Matches = append(report.Matches, scanned[i].Matches...)
	}
	return report
}

func (r *SignalReport) count(family SignalFamily) {
	switch family {
	case FamilySpecificPast:
		r.Valid.SpecificPast++
	case FamilyRealSpending:
		r.Valid.RealSpending++
	case FamilyPainPoints:
		r.Valid.PainPoints++
	case FamilyUserIntroductions:
		r.Valid.UserIntroductions++
	case FamilyEvidence:
		r.Valid.Evidence++
	case FamilyCompliments:
		r.Invalid.Compliments++
	case FamilyGeneralities:
		r.Invalid.Generalities++
	case FamilyFuturePromises:
		r.Invalid.FuturePromises++
	}
}

// FamilyCount returns the number of messages carrying the family.
func (r *SignalReport) FamilyCount(family SignalFamily) int {
	n := 0
	for i := range r.Messages {
		if r.Messages[i].Families[family] {
			n++
		}
	}
	return n
}

func scanMessage(index int, msg models.DiscussionMessage) ScannedMessage {
	sm := ScannedMessage{
		Index:    index,
		AgentID:  msg.AgentID,
		Raw:      msg.Content,
		Norm:     textnorm.Normalize(msg.Content),
		Families: make(map[SignalFamily]bool),
	}
	for _, raw := range textnorm.Sentences(msg.Content) {
		if n := textnorm.Normalize(raw); n != "" {
			sm.Sentences = append(sm.Sentences, sentence{Raw: raw, Norm: n})
		}
	}
	if sm.Norm == "" {
		return sm
	}

	for _, table := range compiledSignals {
		for _, kw := range table.Keywords {
			affirmed, negated := negation.Split(sm.Norm, kw.Norm)
			if affirmed == 0 && (table.Valid || negated == 0) {
				continue
			}
			sm.Families[table.Family] = true
			sm.Matches = append(sm.Matches, SignalMatch{
				MessageIndex: index,
				AgentID:      msg.AgentID,
				Family:       table.Family,
				Valid:        table.Valid,
				Keyword:      kw.Text,
				Quote:        sm.quoteFor(kw.Norm),
			})
			break
		}
	}
	return sm
}

// quoteFor returns the first sentence containing the keyword, or the whole message.
func (m *ScannedMessage) quoteFor(kwNorm string) string {
	for _, s := range m.Sentences {
		if textnorm.Contains(s.Norm, kwNorm) {
			return s.Raw
		}
	}
	return strings.TrimSpace(m.Raw)
}

// forEachIndex runs fn for 0..n-1, fanning out to goroutines for large n.
// Each call owns index i, so callers write into per-index slots.
func forEachIndex(n int, fn func(i int)) {
	if n < parallelThreshold {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
