package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"tradedocs/internal/repository"
)

var mappingTestColumns = []string{
	"id", "from_company_id", "to_company_id", "from_product_code", "to_product_code",
	"confidence_score", "usage_count", "is_manual", "created_by", "last_used", "created_at", "updated_at",
}

func mappingRow(id, fromCode, toCode string, confidence float64, usage int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(mappingTestColumns).
		AddRow(id, "acme", "globex", fromCode, toCode, confidence, usage, false, "", now, now, now)
}

func TestMappingPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMappingPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM product_mappings WHERE id = ?").
			WithArgs("map-1").
			WillReturnRows(mappingRow("map-1", "WIDGET-A", "WID-001", 0.9, 3))

		m, err := repo.FindByID(ctx, "map-1")

		assert.NoError(t, err)
		assert.NotNil(t, m)
		assert.Equal(t, "WID-001", m.ToProductCode)
	})

	t.Run("absent yields nil, nil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM product_mappings WHERE id = ?").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(mappingTestColumns))

		m, err := repo.FindByID(ctx, "missing")

		assert.NoError(t, err)
		assert.Nil(t, m)
	})
}

func TestMappingPostgres_FindBestMatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMappingPostgres(db)
	ctx := context.Background()

	t.Run("substring match", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM product_mappings").
			WithArgs("acme", "globex", "WIDGET").
			WillReturnRows(mappingRow("map-1", "WIDGET-A", "WID-001", 0.9, 3))

		m, err := repo.FindBestMatch(ctx, "acme", "globex", "WIDGET")

		assert.NoError(t, err)
		assert.NotNil(t, m)
		assert.Equal(t, "WIDGET-A", m.FromProductCode)
	})

	t.Run("no match yields nil, nil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM product_mappings").
			WithArgs("acme", "globex", "BOLT").
			WillReturnRows(sqlmock.NewRows(mappingTestColumns))

		m, err := repo.FindBestMatch(ctx, "acme", "globex", "BOLT")

		assert.NoError(t, err)
		assert.Nil(t, m)
	})
}

func TestMappingPostgres_FindSimilar(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMappingPostgres(db)
	ctx := context.Background()

	rows := mappingRow("map-1", "WIDGET-A", "WID-001", 0.9, 3).
		AddRow("map-2", "acme", "globex", "WIDGET-B", "WID-002", 0.6, 1, false, "", time.Now(), time.Now(), time.Now())

	mock.ExpectQuery("SELECT (.+) FROM product_mappings").
		WithArgs("acme", "globex", "WIDGET", 5).
		WillReturnRows(rows)

	items, err := repo.FindSimilar(ctx, "acme", "globex", "WIDGET", 5)

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMappingPostgres_CreateOrUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMappingPostgres(db)
	ctx := context.Background()

	up := &repository.UpsertMapping{
		FromCompanyID:   "acme",
		ToCompanyID:     "globex",
		FromProductCode: "WIDGET-A",
		ToProductCode:   "WID-001",
		ConfidenceScore: 1.0,
		IsManual:        true,
		CreatedBy:       "reviewer",
	}

	t.Run("first write inserts with zero usage", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO product_mappings").
			WithArgs(sqlmock.AnyArg(), "acme", "globex", "WIDGET-A", "WID-001", 1.0, true, "reviewer").
			WillReturnRows(mappingRow("map-1", "WIDGET-A", "WID-001", 1.0, 0))

		m, err := repo.CreateOrUpdate(ctx, up)

		assert.NoError(t, err)
		assert.Equal(t, 0, m.UsageCount)
	})

	t.Run("repeat write increments usage", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO product_mappings").
			WithArgs(sqlmock.AnyArg(), "acme", "globex", "WIDGET-A", "WID-001", 1.0, true, "reviewer").
			WillReturnRows(mappingRow("map-1", "WIDGET-A", "WID-001", 1.0, 1))

		m, err := repo.CreateOrUpdate(ctx, up)

		assert.NoError(t, err)
		assert.Equal(t, "map-1", m.ID)
		assert.Equal(t, 1, m.UsageCount)
	})
}

func TestMappingPostgres_UpdateConfidence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMappingPostgres(db)
	ctx := context.Background()

	t.Run("updates and increments usage", func(t *testing.T) {
		mock.ExpectQuery("UPDATE product_mappings").
			WithArgs("map-1", 0.8).
			WillReturnRows(mappingRow("map-1", "WIDGET-A", "WID-001", 0.8, 4))

		m, err := repo.UpdateConfidence(ctx, "map-1", 0.8)

		assert.NoError(t, err)
		assert.Equal(t, 0.8, m.ConfidenceScore)
		assert.Equal(t, 4, m.UsageCount)
	})

	t.Run("missing mapping yields nil, nil", func(t *testing.T) {
		mock.ExpectQuery("UPDATE product_mappings").
			WithArgs("missing", 0.8).
			WillReturnRows(sqlmock.NewRows(mappingTestColumns))

		m, err := repo.UpdateConfidence(ctx, "missing", 0.8)

		assert.NoError(t, err)
		assert.Nil(t, m)
	})
}

func TestMappingPostgres_Stats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMappingPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"count", "avg", "sum", "manual", "auto"}).
		AddRow(4, 0.75, 12, 1, 3)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs("acme", "globex").
		WillReturnRows(rows)

	s, err := repo.Stats(ctx, "acme", "globex")

	assert.NoError(t, err)
	assert.Equal(t, 4, s.TotalMappings)
	assert.Equal(t, 0.75, s.AvgConfidence)
	assert.Equal(t, 12, s.TotalUsage)
	assert.Equal(t, 1, s.ManualMappings)
	assert.Equal(t, 3, s.AutoMappings)
}

func TestMappingPostgres_ListNeedingReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewMappingPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM product_mappings").
		WithArgs("acme", "globex", 20).
		WillReturnRows(mappingRow("map-2", "GADGET-X", "GAD-009", 0.55, 7))

	items, err := repo.ListNeedingReview(ctx, "acme", "globex", 20)

	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 0.55, items[0].ConfidenceScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}
