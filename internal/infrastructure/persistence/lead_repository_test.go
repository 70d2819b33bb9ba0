package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/propertyspotter/backend/internal/domain/lead"
	"github.com/propertyspotter/backend/internal/domain/shared"
)

// newMockLeadRepository creates a GormLeadRepository with a mocked SQL connection
func newMockLeadRepository(t *testing.T) (*GormLeadRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormLeadRepository(gormDB), mock, mockDB
}

func TestGormLeadRepository_FindByID(t *testing.T) {
	t.Run("finds existing lead", func(t *testing.T) {
		repo, mock, mockDB := newMockLeadRepository(t)
		defer mockDB.Close()

		leadID := uuid.New()
		spotterID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "status", "spotter_id"}).
			AddRow(leadID, "Thabo", "Nkosi", "thabo@example.com", "new", spotterID)

		mock.ExpectQuery(`SELECT \* FROM "leads" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(leadID, 1).
			WillReturnRows(rows)

		l, err := repo.FindByID(context.Background(), leadID)

		assert.NoError(t, err)
		require.NotNil(t, l)
		assert.Equal(t, leadID, l.ID)
		assert.Equal(t, lead.StatusNew, l.Status)
		assert.Equal(t, spotterID, l.SpotterID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing lead", func(t *testing.T) {
		repo, mock, mockDB := newMockLeadRepository(t)
		defer mockDB.Close()

		leadID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "leads" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(leadID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		l, err := repo.FindByID(context.Background(), leadID)

		assert.Nil(t, l)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLeadRepository_FindBySpotter(t *testing.T) {
	repo, mock, mockDB := newMockLeadRepository(t)
	defer mockDB.Close()

	spotterID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "status", "spotter_id"}).
		AddRow(uuid.New(), "Thabo", "Nkosi", "new", spotterID).
		AddRow(uuid.New(), "Lerato", "Dube", "assigned", spotterID)

	mock.ExpectQuery(`SELECT \* FROM "leads" WHERE spotter_id = \$1 ORDER BY created_at DESC LIMIT .*`).
		WithArgs(spotterID, 20).
		WillReturnRows(rows)

	filter := shared.DefaultFilter()
	leads, err := repo.FindBySpotter(context.Background(), spotterID, filter)

	assert.NoError(t, err)
	assert.Len(t, leads, 2)
	assert.Equal(t, spotterID, leads[0].SpotterID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLeadRepository_Delete(t *testing.T) {
	t.Run("deletes existing lead", func(t *testing.T) {
		repo, mock, mockDB := newMockLeadRepository(t)
		defer mockDB.Close()

		leadID := uuid.New()

		mock.ExpectExec(`DELETE FROM "leads" WHERE id = \$1`).
			WithArgs(leadID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), leadID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockLeadRepository(t)
		defer mockDB.Close()

		leadID := uuid.New()

		mock.ExpectExec(`DELETE FROM "leads" WHERE id = \$1`).
			WithArgs(leadID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Equal(t, shared.ErrNotFound, repo.Delete(context.Background(), leadID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLeadRepository_CountBySpotter(t *testing.T) {
	t.Run("counts all of a spotter's leads", func(t *testing.T) {
		repo, mock, mockDB := newMockLeadRepository(t)
		defer mockDB.Close()

		spotterID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "leads" WHERE spotter_id = \$1`).
			WithArgs(spotterID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		count, err := repo.CountBySpotter(context.Background(), spotterID, shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(7), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies the status filter to the count", func(t *testing.T) {
		repo, mock, mockDB := newMockLeadRepository(t)
		defer mockDB.Close()

		spotterID := uuid.New()
		filter := shared.Filter{Filters: map[string]interface{}{"status": "new"}}

		mock.ExpectQuery(`SELECT count\(\*\) FROM "leads" WHERE spotter_id = \$1 AND status = \$2`).
			WithArgs(spotterID, "new").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		count, err := repo.CountBySpotter(context.Background(), spotterID, filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
