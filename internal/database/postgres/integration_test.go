package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osgood/armorytrack/internal/database/schema"
	"github.com/osgood/armorytrack/internal/domain"
)

// testPool connects to the database named by TEST_DATABASE_URL and applies
// the schema. Tests are skipped when the variable is unset so the package
// tests stay runnable without a local Postgres.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, schema.SchemaSQL)
	require.NoError(t, err, "failed to apply schema")

	// Start each test from a clean slate. Cascades clear the log tables.
	_, err = pool.Exec(ctx, "TRUNCATE wow_character CASCADE")
	require.NoError(t, err)

	return pool
}

func storedCharacter(t *testing.T, pool *pgxpool.Pool) *domain.Character {
	t.Helper()

	character, err := domain.NewCharacter("us|icecrown|littlegizmo", "us", "icecrown", "littlegizmo")
	require.NoError(t, err)
	require.NoError(t, NewCharacterRepository(pool).Upsert(context.Background(), character))
	require.NotZero(t, character.ID)
	return character
}

func TestCharacterRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewCharacterRepository(pool)

	t.Run("get absent returns nil", func(t *testing.T) {
		character, err := repo.GetByKey(ctx, "us|icecrown|nobody")
		require.NoError(t, err)
		assert.Nil(t, character)
	})

	t.Run("upsert then get", func(t *testing.T) {
		character := storedCharacter(t, pool)

		fetched, err := repo.GetByKey(ctx, character.Key)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, character.ID, fetched.ID)
		assert.Equal(t, "us", fetched.Region)
		assert.Equal(t, "icecrown", fetched.Realm)
		assert.Equal(t, "littlegizmo", fetched.Name)
		assert.Nil(t, fetched.Level)
	})

	t.Run("upsert updates level in place", func(t *testing.T) {
		character := storedCharacter(t, pool)

		level := 80
		character.Level = &level
		require.NoError(t, repo.Upsert(ctx, character))

		fetched, err := repo.GetByKey(ctx, character.Key)
		require.NoError(t, err)
		require.NotNil(t, fetched.Level)
		assert.Equal(t, 80, *fetched.Level)

		characters, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, characters, 1, "upsert must not create a second row")
	})
}

func TestGearRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewGearRepository(pool)
	character := storedCharacter(t, pool)
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	record := &domain.GearRecord{
		CharacterID: character.ID,
		RecordDay:   day,
		Slot:        domain.SlotHead,
		ItemID:      212011,
		ItemLevel:   610,
		Name:        "Hood of Bound Horrors",
		Quality:     domain.QualityEpic,
	}
	require.NoError(t, repo.Upsert(ctx, record))
	require.NotZero(t, record.ID)

	t.Run("get by slot and day", func(t *testing.T) {
		fetched, err := repo.GetRecord(ctx, character.ID, domain.SlotHead, day)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, record.ID, fetched.ID)
		assert.Equal(t, 610, fetched.ItemLevel)
		assert.Equal(t, domain.QualityEpic, fetched.Quality)
		assert.Nil(t, fetched.Size)
	})

	t.Run("absent slot returns nil", func(t *testing.T) {
		fetched, err := repo.GetRecord(ctx, character.ID, domain.SlotOffHand, day)
		require.NoError(t, err)
		assert.Nil(t, fetched)
	})

	t.Run("upsert same slot and day replaces values", func(t *testing.T) {
		updated := &domain.GearRecord{
			CharacterID: character.ID,
			RecordDay:   day,
			Slot:        domain.SlotHead,
			ItemID:      212012,
			ItemLevel:   623,
			Name:        "Crown of Bound Horrors",
			Quality:     domain.QualityEpic,
		}
		require.NoError(t, repo.Upsert(ctx, updated))
		assert.Equal(t, record.ID, updated.ID, "conflict must resolve to the same row")

		records, err := repo.GetRecordsForDay(ctx, character.ID, day)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 623, records[0].ItemLevel)
	})

	t.Run("main hand size round-trips", func(t *testing.T) {
		size := domain.WeaponSizeTwoHanded
		weapon := &domain.GearRecord{
			CharacterID: character.ID,
			RecordDay:   day,
			Slot:        domain.SlotMainHand,
			ItemID:      212013,
			ItemLevel:   626,
			Name:        "Greataxe of the Unbound",
			Quality:     domain.QualityEpic,
			Size:        &size,
		}
		require.NoError(t, repo.Upsert(ctx, weapon))

		fetched, err := repo.GetRecord(ctx, character.ID, domain.SlotMainHand, day)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.True(t, fetched.IsTwoHanded())
	})
}

func TestProgressRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewProgressRepository(pool)
	character := storedCharacter(t, pool)

	wednesday := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	thursday := wednesday.AddDate(0, 0, 1)
	friday := wednesday.AddDate(0, 0, 2)

	level := 80
	for i, day := range []time.Time{wednesday, thursday} {
		record := &domain.ProgressRecord{
			CharacterID:       character.ID,
			CharacterLevel:    &level,
			RecordDay:         day,
			AverageItemLevel:  600 + i,
			PinnacleQuestDone: i == 1,
			DelvesCompleted:   i * 2,
		}
		require.NoError(t, repo.Upsert(ctx, record))
		require.NotZero(t, record.ID)
	}

	t.Run("get by day", func(t *testing.T) {
		record, err := repo.GetRecord(ctx, character.ID, thursday)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, 601, record.AverageItemLevel)
		assert.True(t, record.PinnacleQuestDone)
		assert.Equal(t, 2, record.DelvesCompleted)
	})

	t.Run("absent day returns nil", func(t *testing.T) {
		record, err := repo.GetRecord(ctx, character.ID, friday)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("range is inclusive and ordered", func(t *testing.T) {
		records, err := repo.GetRecordsInRange(ctx, character.ID, wednesday, friday)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, wednesday, records[0].RecordDay.UTC())
		assert.Equal(t, thursday, records[1].RecordDay.UTC())
	})

	t.Run("upsert same day replaces values", func(t *testing.T) {
		record, err := repo.GetRecord(ctx, character.ID, wednesday)
		require.NoError(t, err)
		require.NotNil(t, record)

		record.DelvesCompleted = 5
		require.NoError(t, repo.Upsert(ctx, record))

		fetched, err := repo.GetRecord(ctx, character.ID, wednesday)
		require.NoError(t, err)
		assert.Equal(t, 5, fetched.DelvesCompleted)
		assert.Equal(t, record.ID, fetched.ID)
	})
}
