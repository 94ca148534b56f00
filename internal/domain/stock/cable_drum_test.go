package stock

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDrum(t *testing.T, length int64) *CableDrum {
	t.Helper()
	d, err := NewCableDrum(uuid.New(), "DRUM-001", "ADSS 48F", decimal.NewFromInt(length))
	require.NoError(t, err)
	return d
}

func TestNewCableDrum(t *testing.T) {
	t.Run("creates available drum at full length", func(t *testing.T) {
		d := createTestDrum(t, 2000)

		assert.Equal(t, DrumAvailable, d.InstallationStatus)
		assert.True(t, d.CurrentLength.Equal(decimal.NewFromInt(2000)))
		assert.True(t, d.UsedLength.IsZero())
		assert.True(t, d.LastMeterReading.IsZero())
	})

	t.Run("rejects non-positive length", func(t *testing.T) {
		d, err := NewCableDrum(uuid.New(), "DRUM-002", "ADSS 48F", decimal.Zero)

		require.Error(t, err)
		assert.Nil(t, d)
	})

	t.Run("rejects missing drum number", func(t *testing.T) {
		d, err := NewCableDrum(uuid.New(), "", "ADSS 48F", decimal.NewFromInt(100))

		require.Error(t, err)
		assert.Nil(t, d)
	})
}

func TestCableDrum_RecordUsage(t *testing.T) {
	actor := uuid.New()

	t.Run("applies readings and appends history", func(t *testing.T) {
		d := createTestDrum(t, 2000)

		usage, err := d.RecordUsage(RecordUsageInput{
			PreviousReading: decimal.Zero,
			CurrentReading:  decimal.NewFromInt(350),
			UsedLength:      decimal.NewFromInt(350),
			PoleNumber:      "P-014",
			RecordedBy:      actor,
		})

		require.NoError(t, err)
		assert.True(t, d.CurrentLength.Equal(decimal.NewFromInt(1650)))
		assert.True(t, d.UsedLength.Equal(decimal.NewFromInt(350)))
		assert.True(t, d.LastMeterReading.Equal(decimal.NewFromInt(350)))
		assert.Equal(t, DrumInUse, d.InstallationStatus)
		assert.Equal(t, d.ID, usage.DrumID)
		assert.Equal(t, d.ProjectID, usage.ProjectID)
		assert.False(t, usage.RecordedAt.IsZero())
	})

	t.Run("marks drum completed when exhausted", func(t *testing.T) {
		d := createTestDrum(t, 100)

		_, err := d.RecordUsage(RecordUsageInput{
			PreviousReading: decimal.Zero,
			CurrentReading:  decimal.NewFromInt(100),
			UsedLength:      decimal.NewFromInt(100),
			RecordedBy:      actor,
		})

		require.NoError(t, err)
		assert.Equal(t, DrumCompleted, d.InstallationStatus)
		assert.True(t, d.CurrentLength.IsZero())
	})

	t.Run("rejects reading going backwards", func(t *testing.T) {
		d := createTestDrum(t, 2000)

		_, err := d.RecordUsage(RecordUsageInput{
			PreviousReading: decimal.NewFromInt(500),
			CurrentReading:  decimal.NewFromInt(400),
			UsedLength:      decimal.NewFromInt(100),
			RecordedBy:      actor,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "before previous reading")
	})

	t.Run("rejects used length outside tolerance", func(t *testing.T) {
		d := createTestDrum(t, 2000)

		_, err := d.RecordUsage(RecordUsageInput{
			PreviousReading: decimal.Zero,
			CurrentReading:  decimal.NewFromInt(100),
			UsedLength:      decimal.NewFromFloat(100.02),
			RecordedBy:      actor,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match")
	})

	t.Run("accepts discrepancy within tolerance", func(t *testing.T) {
		d := createTestDrum(t, 2000)

		_, err := d.RecordUsage(RecordUsageInput{
			PreviousReading: decimal.Zero,
			CurrentReading:  decimal.NewFromInt(100),
			UsedLength:      decimal.NewFromFloat(100.01),
			RecordedBy:      actor,
		})

		require.NoError(t, err)
	})

	t.Run("rejects missing recorder", func(t *testing.T) {
		d := createTestDrum(t, 2000)

		_, err := d.RecordUsage(RecordUsageInput{
			CurrentReading: decimal.NewFromInt(10),
			UsedLength:     decimal.NewFromInt(10),
		})

		require.Error(t, err)
	})
}
