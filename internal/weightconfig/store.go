// internal/weightconfig/store.go
package weightconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"idea-scoring/internal/models"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("CONFIG_NOT_FOUND")
	ErrStoreFailed   = errors.New("CONFIG_STORE_UNAVAILABLE")
	ErrStableVersion = errors.New("CONFIG_IS_STABLE")
)

const configColumns = `id, version, is_active, is_canary, canary_percentage,
	target_customer_weight, demand_scenario_weight, core_value_weight, business_model_weight, credibility_weight,
	low_max, mid_min, mid_max, high_min,
	description, calibration_set_size, calibration_accuracy, created_at, updated_at`

// PostgresStore keeps every weight config version in scoring_weight_configs.
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row rowScanner) (*models.WeightConfigVersion, error) {
	var (
		cfg         models.WeightConfigVersion
		description sql.NullString
		setSize     sql.NullInt64
		accuracy    sql.NullFloat64
	)
	err := row.Scan(
		&cfg.ID, &cfg.Version, &cfg.IsActive, &cfg.IsCanary, &cfg.CanaryPercentage,
		&cfg.Weights.TargetCustomer, &cfg.Weights.DemandScenario, &cfg.Weights.CoreValue,
		&cfg.Weights.BusinessModel, &cfg.Weights.Credibility,
		&cfg.Thresholds.LowMax, &cfg.Thresholds.MidMin, &cfg.Thresholds.MidMax, &cfg.Thresholds.HighMin,
		&description, &setSize, &accuracy, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cfg.Description = description.String
	if setSize.Valid {
		n := int(setSize.Int64)
		cfg.CalibrationSetSize = &n
	}
	if accuracy.Valid {
		a := accuracy.Float64
		cfg.CalibrationAccuracy = &a
	}
	return &cfg, nil
}

func (s *PostgresStore) queryConfigs(ctx context.Context, query string, args ...interface{}) ([]models.WeightConfigVersion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	defer rows.Close()

	var out []models.WeightConfigVersion
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrStoreFailed, err)
		}
		out = append(out, *cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return out, nil
}

// ActiveConfigs returns the stable config and every running canary.
func (s *PostgresStore) ActiveConfigs(ctx context.Context) ([]models.WeightConfigVersion, error) {
	return s.queryConfigs(ctx, `SELECT `+configColumns+`
		FROM scoring_weight_configs
		WHERE is_active = true
		ORDER BY version`)
}

// History lists versions newest first.
func (s *PostgresStore) History(ctx context.Context, limit int) ([]models.WeightConfigVersion, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryConfigs(ctx, `SELECT `+configColumns+`
		FROM scoring_weight_configs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
}

func (s *PostgresStore) Get(ctx context.Context, version string) (*models.WeightConfigVersion, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+configColumns+`
		FROM scoring_weight_configs
		WHERE version = $1`, version)
	cfg, err := scanConfig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: version %s", ErrNotFound, version)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	return cfg, nil
}

// Create stores a new inactive version after validating it.
func (s *PostgresStore) Create(ctx context.Context, cfg models.WeightConfigVersion) (*models.WeightConfigVersion, error) {
	cfg.CanaryPercentage = 0
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	now := s.now()
	cfg.ID = uuid.New().String()
	cfg.IsActive = false
	cfg.IsCanary = false
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scoring_weight_configs (`+configColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		cfg.ID, cfg.Version, cfg.IsActive, cfg.IsCanary, cfg.CanaryPercentage,
		cfg.Weights.TargetCustomer, cfg.Weights.DemandScenario, cfg.Weights.CoreValue,
		cfg.Weights.BusinessModel, cfg.Weights.Credibility,
		cfg.Thresholds.LowMax, cfg.Thresholds.MidMin, cfg.Thresholds.MidMax, cfg.Thresholds.HighMin,
		nullString(cfg.Description), nullInt(cfg.CalibrationSetSize), nullFloat(cfg.CalibrationAccuracy),
		cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert version %s: %v", ErrStoreFailed, cfg.Version, err)
	}
	return &cfg, nil
}

// Activate makes version the only active config, ending any running canaries.
func (s *PostgresStore) Activate(ctx context.Context, version string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.now()
		if _, err := tx.ExecContext(ctx, `
			UPDATE scoring_weight_configs
			SET is_active = false, is_canary = false, canary_percentage = 0, updated_at = $1
			WHERE is_active = true`, now); err != nil {
			return fmt.Errorf("%w: deactivate all: %v", ErrStoreFailed, err)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE scoring_weight_configs
			SET is_active = true, is_canary = false, canary_percentage = 0, updated_at = $2
			WHERE version = $1`, version, now)
		if err != nil {
			return fmt.Errorf("%w: activate %s: %v", ErrStoreFailed, version, err)
		}
		return requireAffected(res, version)
	})
}

// StartCanary routes percentage of traffic to version.
func (s *PostgresStore) StartCanary(ctx context.Context, version string, percentage int) error {
	return s.setCanary(ctx, version, percentage, true)
}

// AdjustCanary changes the traffic share of a running canary.
func (s *PostgresStore) AdjustCanary(ctx context.Context, version string, percentage int) error {
	return s.setCanary(ctx, version, percentage, false)
}

func (s *PostgresStore) setCanary(ctx context.Context, version string, percentage int, start bool) error {
	if percentage < 0 || percentage > 100 {
		return fmt.Errorf("%w: canary percentage %d outside [0,100]", ErrInvalidConfig, percentage)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var active, canary bool
		err := tx.QueryRowContext(ctx, `
			SELECT is_active, is_canary FROM scoring_weight_configs
			WHERE version = $1 FOR UPDATE`, version).Scan(&active, &canary)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: version %s", ErrNotFound, version)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreFailed, err)
		}
		if active && !canary {
			return fmt.Errorf("%w: %s is the stable version", ErrStableVersion, version)
		}
		if !start && !(active && canary) {
			return fmt.Errorf("%w: %s is not a running canary", ErrNotFound, version)
		}

		var others int
		if err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(canary_percentage), 0) FROM scoring_weight_configs
			WHERE is_active = true AND is_canary = true AND version <> $1`, version).Scan(&others); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreFailed, err)
		}
		if others+percentage > 100 {
			return fmt.Errorf("%w: canary traffic would reach %d%%", ErrInvalidConfig, others+percentage)
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE scoring_weight_configs
			SET is_active = true, is_canary = true, canary_percentage = $2, updated_at = $3
			WHERE version = $1`, version, percentage, s.now())
		if err != nil {
			return fmt.Errorf("%w: update canary %s: %v", ErrStoreFailed, version, err)
		}
		return requireAffected(res, version)
	})
}

// Rollback stops every canary so all traffic returns to the stable version.
func (s *PostgresStore) Rollback(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scoring_weight_configs
		SET is_active = false, is_canary = false, canary_percentage = 0, updated_at = $1
		WHERE is_canary = true`, s.now())
	if err != nil {
		return 0, fmt.Errorf("%w: rollback: %v", ErrStoreFailed, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// SeedDefault stores and activates the default calibration when the table is empty.
func (s *PostgresStore) SeedDefault(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scoring_weight_configs`).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	if count > 0 {
		return false, nil
	}

	if _, err := s.Create(ctx, models.WeightConfigVersion{
		Version:     SeedVersion,
		Weights:     DefaultWeights(),
		Thresholds:  DefaultThresholds(),
		Description: "initial calibration",
	}); err != nil {
		return false, err
	}
	if err := s.Activate(ctx, SeedVersion); err != nil {
		return false, err
	}
	return true, nil
}

func (s *PostgresStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrStoreFailed, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrStoreFailed, err)
	}
	return nil
}

func requireAffected(res sql.Result, version string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: version %s", ErrNotFound, version)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
