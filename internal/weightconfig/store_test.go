// internal/weightconfig/store_test.go
package weightconfig

import (
	"context"
	"errors"
	"testing"
	"time"

	"idea-scoring/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configColumnNames = []string{
	"id", "version", "is_active", "is_canary", "canary_percentage",
	"target_customer_weight", "demand_scenario_weight", "core_value_weight", "business_model_weight", "credibility_weight",
	"low_max", "mid_min", "mid_max", "high_min",
	"description", "calibration_set_size", "calibration_accuracy", "created_at", "updated_at",
}

func addConfigRow(rows *sqlmock.Rows, cfg models.WeightConfigVersion, accuracy interface{}) *sqlmock.Rows {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return rows.AddRow(
		cfg.ID, cfg.Version, cfg.IsActive, cfg.IsCanary, cfg.CanaryPercentage,
		cfg.Weights.TargetCustomer, cfg.Weights.DemandScenario, cfg.Weights.CoreValue,
		cfg.Weights.BusinessModel, cfg.Weights.Credibility,
		cfg.Thresholds.LowMax, cfg.Thresholds.MidMin, cfg.Thresholds.MidMax, cfg.Thresholds.HighMin,
		cfg.Description, nil, accuracy, now, now,
	)
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock
}

// ==========================
// Read Tests
// ==========================

func TestPostgresStore_ActiveConfigs(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows(configColumnNames)
	addConfigRow(rows, validConfig("1.0.0"), 0.82)
	addConfigRow(rows, canaryConfig("1.1.0", 10), nil)
	mock.ExpectQuery("FROM scoring_weight_configs\\s+WHERE is_active = true").WillReturnRows(rows)

	configs, err := store.ActiveConfigs(context.Background())
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "1.0.0", configs[0].Version)
	require.NotNil(t, configs[0].CalibrationAccuracy)
	assert.InDelta(t, 0.82, *configs[0].CalibrationAccuracy, 1e-9)
	assert.Nil(t, configs[0].CalibrationSetSize)

	assert.True(t, configs[1].IsCanary)
	assert.Equal(t, 10, configs[1].CanaryPercentage)
	assert.Nil(t, configs[1].CalibrationAccuracy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ActiveConfigs_QueryError(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("FROM scoring_weight_configs").WillReturnError(errors.New("connection reset"))

	_, err := store.ActiveConfigs(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreFailed)
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("WHERE version = \\$1").
		WithArgs("9.9.9").
		WillReturnRows(sqlmock.NewRows(configColumnNames))

	_, err := store.Get(context.Background(), "9.9.9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_History_DefaultLimit(t *testing.T) {
	store, mock := newMockStore(t)
	rows := addConfigRow(sqlmock.NewRows(configColumnNames), validConfig("1.0.0"), nil)
	mock.ExpectQuery("ORDER BY created_at DESC").WithArgs(20).WillReturnRows(rows)

	history, err := store.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Write Tests
// ==========================

func TestPostgresStore_Create(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO scoring_weight_configs").WillReturnResult(sqlmock.NewResult(0, 1))

	cfg := validConfig("2.0.0")
	cfg.IsActive = true
	created, err := store.Create(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEqual(t, "id-2.0.0", created.ID)
	assert.False(t, created.IsActive)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create_RejectsInvalidWeights(t *testing.T) {
	store, mock := newMockStore(t)

	cfg := validConfig("2.0.0")
	cfg.Weights.CoreValue = 0.9
	_, err := store.Create(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Activate(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("SET is_active = false").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SET is_active = true, is_canary = false").
		WithArgs("2.0.0", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Activate(context.Background(), "2.0.0"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Activate_UnknownVersionRollsBack(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("SET is_active = false").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SET is_active = true, is_canary = false").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.Activate(context.Background(), "404")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_StartCanary(t *testing.T) {
	tests := []struct {
		name       string
		pct        int
		active     bool
		canary     bool
		others     int
		wantErr    error
		wantUpdate bool
	}{
		{name: "starts inactive version", pct: 10, wantUpdate: true},
		{name: "total over 100", pct: 30, others: 80, wantErr: ErrInvalidConfig},
		{name: "stable version refused", pct: 10, active: true, wantErr: ErrStableVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			mock.ExpectBegin()
			mock.ExpectQuery("SELECT is_active, is_canary").
				WithArgs("1.1.0").
				WillReturnRows(sqlmock.NewRows([]string{"is_active", "is_canary"}).AddRow(tt.active, tt.canary))
			if tt.wantErr != ErrStableVersion {
				mock.ExpectQuery("SELECT COALESCE\\(SUM\\(canary_percentage\\), 0\\)").
					WithArgs("1.1.0").
					WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(tt.others))
			}
			if tt.wantUpdate {
				mock.ExpectExec("SET is_active = true, is_canary = true").
					WithArgs("1.1.0", tt.pct, sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			err := store.StartCanary(context.Background(), "1.1.0", tt.pct)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_AdjustCanary_RequiresRunningCanary(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT is_active, is_canary").
		WillReturnRows(sqlmock.NewRows([]string{"is_active", "is_canary"}).AddRow(false, false))
	mock.ExpectRollback()

	err := store.AdjustCanary(context.Background(), "1.1.0", 20)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_StartCanary_PercentageOutOfRange(t *testing.T) {
	store, mock := newMockStore(t)
	err := store.StartCanary(context.Background(), "1.1.0", 150)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Rollback(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("WHERE is_canary = true").WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := store.Rollback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SeedDefault(t *testing.T) {
	t.Run("empty table seeds and activates", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM scoring_weight_configs").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec("INSERT INTO scoring_weight_configs").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectBegin()
		mock.ExpectExec("SET is_active = false").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("SET is_active = true, is_canary = false").
			WithArgs(SeedVersion, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		seeded, err := store.SeedDefault(context.Background())
		require.NoError(t, err)
		assert.True(t, seeded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing rows left alone", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		seeded, err := store.SeedDefault(context.Background())
		require.NoError(t, err)
		assert.False(t, seeded)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
