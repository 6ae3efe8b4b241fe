// internal/assessments/indexer.go
package assessments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"idea-scoring/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrIndexFailed = errors.New("INDEX_FAILED")

// ESIndexer mirrors assessments into Elasticsearch for calibration analysis.
type ESIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewESIndexer(client *elasticsearch.Client, index string) *ESIndexer {
	return &ESIndexer{client: client, index: index}
}

// assessmentDocument is the flattened shape stored in the index.
type assessmentDocument struct {
	AssessmentID     string                `json:"assessmentId"`
	IdeaID           string                `json:"ideaId"`
	UserID           string                `json:"userId"`
	SessionID        string                `json:"sessionId"`
	TotalScore       float64               `json:"totalScore"`
	Level            models.MaturityLevel  `json:"level"`
	Confidence       float64               `json:"confidence"`
	DimensionScores  map[string]float64    `json:"dimensionScores"`
	WeakDimensions   []models.Dimension    `json:"weakDimensions"`
	ValidSignals     models.ValidSignals   `json:"validSignals"`
	InvalidSignals   models.InvalidSignals `json:"invalidSignals"`
	Consensus        models.ConsensusLevel `json:"consensusLevel"`
	ScoringVersion   string                `json:"scoringVersion"`
	ConfigID         string                `json:"configId,omitempty"`
	Canary           bool                  `json:"canary"`
	MessageCount     int                   `json:"messageCount"`
	WorkshopUnlocked bool                  `json:"workshopUnlocked"`
	Recommendations  []string              `json:"recommendations"`
	CreatedAt        time.Time             `json:"createdAt"`
}

func toDocument(rec *models.AssessmentRecord) assessmentDocument {
	r := rec.Result
	dims := make(map[string]float64, len(models.AllDimensions))
	for _, d := range models.AllDimensions {
		dims[string(d)] = r.Dimensions.Get(d).Score
	}
	workshops := make([]string, 0, len(rec.WorkshopAccess.Recommendations))
	for _, rc := range rec.WorkshopAccess.Recommendations {
		workshops = append(workshops, rc.WorkshopID)
	}
	return assessmentDocument{
		AssessmentID:     rec.ID,
		IdeaID:           rec.IdeaID,
		UserID:           rec.UserID,
		SessionID:        rec.SessionID,
		TotalScore:       r.TotalScore,
		Level:            r.Level,
		Confidence:       r.Confidence,
		DimensionScores:  dims,
		WeakDimensions:   r.WeakDimensions,
		ValidSignals:     r.ValidSignals,
		InvalidSignals:   r.InvalidSignals,
		Consensus:        r.ExpertConsensus.ConsensusLevel,
		ScoringVersion:   r.ScoringVersion,
		ConfigID:         r.ConfigID,
		Canary:           r.Canary,
		MessageCount:     r.MessageCount,
		WorkshopUnlocked: rec.WorkshopAccess.Unlocked,
		Recommendations:  workshops,
		CreatedAt:        rec.CreatedAt,
	}
}

// Index writes rec under its assessment ID; re-indexing overwrites.
func (i *ESIndexer) Index(ctx context.Context, rec *models.AssessmentRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: assessment has no id", ErrIndexFailed)
	}

	body, err := json.Marshal(toDocument(rec))
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrIndexFailed, err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: rec.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%w: %s: %s", ErrIndexFailed, res.Status(), bytes.TrimSpace(msg))
	}
	return nil
}
