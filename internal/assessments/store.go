// internal/assessments/store.go
package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"idea-scoring/internal/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("ASSESSMENT_NOT_FOUND")
	ErrInsertFailed     = errors.New("DATABASE_INSERT_FAILED")
	ErrQueryFailed      = errors.New("QUERY_EXECUTION_FAILED")
	ErrInvalidRange     = errors.New("INVALID_SCORE_RANGE")
	ErrUnknownListQuery = errors.New("UNKNOWN_LIST_QUERY")
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// PostgresStore keeps the append-only history of maturity assessments and
// admission checks.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// Save appends rec and fills in its ID and CreatedAt.
func (s *PostgresStore) Save(ctx context.Context, rec *models.AssessmentRecord) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("%w: encode result: %v", ErrInsertFailed, err)
	}
	recs := rec.WorkshopAccess.Recommendations
	if recs == nil {
		recs = []models.Recommendation{}
	}
	recommendations, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("%w: encode recommendations: %v", ErrInsertFailed, err)
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO maturity_assessments (
			id, idea_id, user_id, session_id, total_score, level, confidence,
			workshop_unlocked, unlocked_at, scoring_version, config_id, message_count,
			result, recommendations, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		rec.ID, rec.IdeaID, rec.UserID, rec.SessionID,
		rec.Result.TotalScore, string(rec.Result.Level), rec.Result.Confidence,
		rec.WorkshopAccess.Unlocked, nullTime(rec.WorkshopAccess.UnlockedAt),
		rec.Result.ScoringVersion, nullString(rec.Result.ConfigID), rec.Result.MessageCount,
		result, recommendations, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	return nil
}

// SaveAdmission appends an admission check.
func (s *PostgresStore) SaveAdmission(ctx context.Context, rec *models.AdmissionRecord) error {
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("%w: encode admission: %v", ErrInsertFailed, err)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.CreatedAt = s.now()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admission_results (
			id, idea_id, user_id, score, verdict, is_willing_to_discuss, result, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, nullString(rec.IdeaID), nullString(rec.UserID),
		rec.Result.Score, string(rec.Result.Verdict), rec.Result.IsWillingToDiscuss,
		result, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInsertFailed, err)
	}
	return nil
}

// GetLatest returns the newest assessment of an idea, narrowed to one
// session when sessionID is set.
func (s *PostgresStore) GetLatest(ctx context.Context, ideaID, sessionID string) (*models.AssessmentRecord, error) {
	query := `SELECT ` + assessmentColumns + ` FROM maturity_assessments WHERE idea_id = $1`
	args := []interface{}{ideaID}
	if sessionID != "" {
		query += ` AND session_id = $2`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	rec, err := scanAssessment(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByIdea(ctx context.Context, ideaID string, limit int) ([]models.AssessmentRecord, error) {
	return s.list(ctx, ListByIdea, limit, ideaID)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.AssessmentRecord, error) {
	return s.list(ctx, ListByUser, limit, userID)
}

func (s *PostgresStore) ListByScoreRange(ctx context.Context, min, max float64, limit int) ([]models.AssessmentRecord, error) {
	if min > max {
		return nil, fmt.Errorf("%w: min %.1f > max %.1f", ErrInvalidRange, min, max)
	}
	return s.list(ctx, ListByScoreRange, limit, min, max)
}

func (s *PostgresStore) ListByLevel(ctx context.Context, level models.MaturityLevel, limit int) ([]models.AssessmentRecord, error) {
	return s.list(ctx, ListByLevel, limit, string(level))
}

func (s *PostgresStore) ListUnlocked(ctx context.Context, limit int) ([]models.AssessmentRecord, error) {
	return s.list(ctx, ListUnlocked, limit)
}

func (s *PostgresStore) list(ctx context.Context, q ListQuery, limit int, params ...interface{}) ([]models.AssessmentRecord, error) {
	query, argCount, err := buildListQuery(q)
	if err != nil {
		return nil, err
	}
	if len(params) != argCount {
		return nil, fmt.Errorf("%w: %s expects %d params, got %d", ErrQueryFailed, q, argCount, len(params))
	}

	args := append(params, clampLimit(limit))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	out := []models.AssessmentRecord{}
	for rows.Next() {
		rec, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	return out, nil
}

// AggregateStats summarizes every stored assessment.
func (s *PostgresStore) AggregateStats(ctx context.Context) (*models.AssessmentStats, error) {
	stats := &models.AssessmentStats{LevelDistribution: map[models.MaturityLevel]int{}}

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE workshop_unlocked),
		       COALESCE(AVG(total_score), 0)
		FROM maturity_assessments`,
	).Scan(&stats.Total, &stats.Unlocked, &stats.AvgScore)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT level, COUNT(*) FROM maturity_assessments GROUP BY level`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
		}
		stats.LevelDistribution[models.MaturityLevel(level)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}

	if stats.Total > 0 {
		stats.UnlockRate = float64(stats.Unlocked) / float64(stats.Total)
	}
	return stats, nil
}

func scanAssessment(row rowScanner) (*models.AssessmentRecord, error) {
	var (
		rec             models.AssessmentRecord
		result          []byte
		recommendations []byte
		unlockedAt      sql.NullTime
	)
	err := row.Scan(
		&rec.ID, &rec.IdeaID, &rec.UserID, &rec.SessionID,
		&result, &recommendations,
		&rec.WorkshopAccess.Unlocked, &unlockedAt, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(result, &rec.Result); err != nil {
		return nil, fmt.Errorf("decode result of %s: %w", rec.ID, err)
	}
	rec.WorkshopAccess.Recommendations = []models.Recommendation{}
	if len(recommendations) > 0 {
		if err := json.Unmarshal(recommendations, &rec.WorkshopAccess.Recommendations); err != nil {
			return nil, fmt.Errorf("decode recommendations of %s: %w", rec.ID, err)
		}
	}
	if unlockedAt.Valid {
		t := unlockedAt.Time
		rec.WorkshopAccess.UnlockedAt = &t
	}
	return &rec, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
