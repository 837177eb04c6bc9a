package animals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/db/models"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/enums"
	"github.com/fazendagestaosvp/fazenda-vista-backend/pkg/pagination"
)

// openTestDB creates an in-memory sqlite database with the animals table.
// The schema mirrors the postgres migration minus server-side defaults, so
// tests assign IDs themselves.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared&_fk=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE animals (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		tag TEXT,
		breed TEXT,
		birth_date DATETIME,
		weight_kg NUMERIC,
		status TEXT NOT NULL DEFAULT 'active',
		notes TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedAnimal(t *testing.T, repo *Repository, ownerID uuid.UUID, name string, createdAt time.Time) *models.Animal {
	t.Helper()
	animal := &models.Animal{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Kind:      enums.AnimalKindCattle,
		Name:      name,
		Status:    enums.AnimalStatusActive,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), animal))
	return animal
}

func TestRepositoryScopesByOwner(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	owner := uuid.New()
	stranger := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	animal := seedAnimal(t, repo, owner, "Mimosa", now)

	found, err := repo.FindByID(context.Background(), owner, animal.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mimosa", found.Name)

	_, err = repo.FindByID(context.Background(), stranger, animal.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Delete(context.Background(), stranger, animal.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The owner's copy must survive the stranger's delete attempt.
	_, err = repo.FindByID(context.Background(), owner, animal.ID)
	assert.NoError(t, err)
}

func TestRepositoryListPagesNewestFirst(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	owner := uuid.New()
	base := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)

	names := []string{"Aurora", "Bonita", "Cacau", "Dourada", "Estrela"}
	for i, name := range names {
		seedAnimal(t, repo, owner, name, base.Add(time.Duration(i)*time.Minute))
	}
	// Another owner's herd must never leak into the page.
	seedAnimal(t, repo, uuid.New(), "Forasteira", base.Add(time.Hour))

	first, err := repo.List(context.Background(), owner, nil, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "Estrela", first[0].Name)
	assert.Equal(t, "Dourada", first[1].Name)
	assert.Equal(t, "Cacau", first[2].Name)

	cursor := &pagination.Cursor{CreatedAt: first[2].CreatedAt, ID: first[2].ID}
	second, err := repo.List(context.Background(), owner, cursor, 3)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "Bonita", second[0].Name)
	assert.Equal(t, "Aurora", second[1].Name)
}

func TestRepositoryUpdatePersistsChanges(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	owner := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	animal := seedAnimal(t, repo, owner, "Pitanga", now)

	animal.Status = enums.AnimalStatusSold
	notes := "sold at auction"
	animal.Notes = &notes
	require.NoError(t, repo.Update(context.Background(), animal))

	found, err := repo.FindByID(context.Background(), owner, animal.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.AnimalStatusSold, found.Status)
	require.NotNil(t, found.Notes)
	assert.Equal(t, notes, *found.Notes)
}

func TestRepositoryDeleteRemovesRow(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	owner := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)

	animal := seedAnimal(t, repo, owner, "Violeta", now)

	require.NoError(t, repo.Delete(context.Background(), owner, animal.ID))
	_, err := repo.FindByID(context.Background(), owner, animal.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
