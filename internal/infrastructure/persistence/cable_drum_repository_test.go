package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/fibreflow/procurement/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDrumRepository creates a GormCableDrumRepository with a mocked SQL connection
func newMockDrumRepository(t *testing.T) (*GormCableDrumRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCableDrumRepository(gormDB), mock, mockDB
}

func TestGormCableDrumRepository_FindByID(t *testing.T) {
	t.Run("finds existing drum", func(t *testing.T) {
		repo, mock, mockDB := newMockDrumRepository(t)
		defer mockDB.Close()

		drumID := uuid.New()
		projectID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "project_id", "drum_number", "cable_type",
			"original_length", "current_length", "used_length",
			"last_meter_reading", "installation_status", "version",
		}).AddRow(
			drumID, projectID, "DRM-001", "ADSS 48F",
			decimal.NewFromInt(2000), decimal.NewFromInt(1500), decimal.NewFromInt(500),
			decimal.NewFromInt(500), "in_use", 2,
		)

		mock.ExpectQuery(`SELECT \* FROM "cable_drums" WHERE id = \$1`).
			WithArgs(drumID, 1).
			WillReturnRows(rows)

		drum, err := repo.FindByID(context.Background(), drumID)

		assert.NoError(t, err)
		assert.NotNil(t, drum)
		assert.Equal(t, "DRM-001", drum.DrumNumber)
		assert.Equal(t, stock.DrumInUse, drum.InstallationStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent drum", func(t *testing.T) {
		repo, mock, mockDB := newMockDrumRepository(t)
		defer mockDB.Close()

		drumID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "cable_drums" WHERE id = \$1`).
			WithArgs(drumID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		drum, err := repo.FindByID(context.Background(), drumID)

		assert.Error(t, err)
		assert.Nil(t, drum)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCableDrumRepository_FindByDrumNumber(t *testing.T) {
	t.Run("finds drum by number within project", func(t *testing.T) {
		repo, mock, mockDB := newMockDrumRepository(t)
		defer mockDB.Close()

		drumID := uuid.New()
		projectID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "project_id", "drum_number", "cable_type",
			"original_length", "current_length", "version",
		}).AddRow(
			drumID, projectID, "DRM-001", "ADSS 48F",
			decimal.NewFromInt(2000), decimal.NewFromInt(2000), 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "cable_drums" WHERE project_id = \$1 AND drum_number = \$2`).
			WithArgs(projectID, "DRM-001", 1).
			WillReturnRows(rows)

		drum, err := repo.FindByDrumNumber(context.Background(), projectID, "DRM-001")

		assert.NoError(t, err)
		assert.NotNil(t, drum)
		assert.Equal(t, drumID, drum.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCableDrumRepository_ExistsByDrumNumber(t *testing.T) {
	t.Run("returns true for registered drum number", func(t *testing.T) {
		repo, mock, mockDB := newMockDrumRepository(t)
		defer mockDB.Close()

		projectID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "cable_drums" WHERE project_id = \$1 AND drum_number = \$2`).
			WithArgs(projectID, "DRM-001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByDrumNumber(context.Background(), projectID, "DRM-001")

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCableDrumRepository_SaveWithLock(t *testing.T) {
	t.Run("saves when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockDrumRepository(t)
		defer mockDB.Close()

		drum, err := stock.NewCableDrum(uuid.New(), "DRM-001", "ADSS 48F", decimal.NewFromInt(2000))
		require.NoError(t, err)
		_, err = drum.RecordUsage(stock.RecordUsageInput{
			PreviousReading: decimal.Zero,
			CurrentReading:  decimal.NewFromInt(350),
			UsedLength:      decimal.NewFromInt(350),
			RecordedBy:      uuid.New(),
		})
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "cable_drums" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveWithLock(context.Background(), drum)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns lock error when version is stale", func(t *testing.T) {
		repo, mock, mockDB := newMockDrumRepository(t)
		defer mockDB.Close()

		drum, err := stock.NewCableDrum(uuid.New(), "DRM-001", "ADSS 48F", decimal.NewFromInt(2000))
		require.NoError(t, err)
		_, err = drum.RecordUsage(stock.RecordUsageInput{
			PreviousReading: decimal.Zero,
			CurrentReading:  decimal.NewFromInt(350),
			UsedLength:      decimal.NewFromInt(350),
			RecordedBy:      uuid.New(),
		})
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "cable_drums" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), drum)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_FAILED", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCableDrumRepository_SaveUsage(t *testing.T) {
	t.Run("appends usage history row", func(t *testing.T) {
		repo, mock, mockDB := newMockDrumRepository(t)
		defer mockDB.Close()

		drum, err := stock.NewCableDrum(uuid.New(), "DRM-001", "ADSS 48F", decimal.NewFromInt(2000))
		require.NoError(t, err)
		usage, err := drum.RecordUsage(stock.RecordUsageInput{
			PreviousReading: decimal.Zero,
			CurrentReading:  decimal.NewFromInt(120),
			UsedLength:      decimal.NewFromInt(120),
			PoleNumber:      "P-0042",
			RecordedBy:      uuid.New(),
		})
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "drum_usage_history"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err = repo.SaveUsage(context.Background(), usage)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCableDrumRepository_FindUsageByDrum(t *testing.T) {
	t.Run("lists usage history oldest first", func(t *testing.T) {
		repo, mock, mockDB := newMockDrumRepository(t)
		defer mockDB.Close()

		drumID := uuid.New()
		projectID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "drum_id", "project_id", "previous_reading", "current_reading", "used_length", "pole_number",
		}).
			AddRow(uuid.New(), drumID, projectID, decimal.Zero, decimal.NewFromInt(120), decimal.NewFromInt(120), "P-0041").
			AddRow(uuid.New(), drumID, projectID, decimal.NewFromInt(120), decimal.NewFromInt(350), decimal.NewFromInt(230), "P-0042")

		mock.ExpectQuery(`SELECT \* FROM "drum_usage_history" WHERE drum_id = \$1 ORDER BY recorded_at ASC`).
			WithArgs(drumID).
			WillReturnRows(rows)

		usage, err := repo.FindUsageByDrum(context.Background(), drumID, shared.Filter{})

		assert.NoError(t, err)
		assert.Len(t, usage, 2)
		assert.Equal(t, "P-0041", usage[0].PoleNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCableDrumRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements CableDrumRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockDrumRepository(t)
		defer mockDB.Close()

		var _ stock.CableDrumRepository = repo
	})
}
