package checks

import (
	"context"
	"testing"

	"ahb-manager/core/database"
	"ahb-manager/core/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

type resolutionModel struct {
	ID         uint   `gorm:"primaryKey"`
	Expression string `gorm:"size:512"`
	Text       string `gorm:"type:text"`
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil, store.Models())
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_MigratedSqlite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, store.New(db, 0).Migrate(context.Background()))

	report, err := CheckSchema(db, store.Models())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", report.Driver)
	assert.True(t, report.Matched, "%+v", report)
	assert.Len(t, report.Tables, len(store.Models()))
}

func TestCheckSchema_MissingColumn(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment")
	rows.AddRow("text", "text", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `condition_resolutions`").WillReturnRows(rows)

	report, err := CheckSchema(db, map[string]any{"condition_resolutions": &resolutionModel{}})
	require.NoError(t, err)
	assert.False(t, report.Matched)

	tbl := report.Tables["condition_resolutions"]
	assert.Equal(t, "error", tbl.Status)
	assert.Equal(t, []string{"expression"}, tbl.MissingColumns)
	assert.Empty(t, tbl.TypeMismatches)
}

func TestCheckSchema_TypeMismatch(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("id", "bigint unsigned", "NO", "PRI", nil, "auto_increment")
	rows.AddRow("expression", "varchar(512)", "YES", "", nil, "")
	rows.AddRow("text", "varchar(255)", "YES", "", nil, "")
	mock.ExpectQuery("SHOW COLUMNS FROM `condition_resolutions`").WillReturnRows(rows)

	report, err := CheckSchema(db, map[string]any{"condition_resolutions": &resolutionModel{}})
	require.NoError(t, err)

	tbl := report.Tables["condition_resolutions"]
	assert.Equal(t, []string{"text: expected text, got varchar(255)"}, tbl.TypeMismatches)
}

func TestCheckSchema_InspectFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `condition_resolutions`").WillReturnError(assert.AnError)

	report, err := CheckSchema(db, map[string]any{"condition_resolutions": &resolutionModel{}})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Len(t, report.Errors, 1)
}
