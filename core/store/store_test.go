package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"ahb-manager/core/condition"
	"ahb-manager/core/database"
	"ahb-manager/core/diff"
	"ahb-manager/core/flatten"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	s := New(db, 2)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func setupMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)
	return New(gormDB, 0), mock
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ahbRun(t *testing.T, s *Store, id, fv string, created time.Time, von time.Time, bis *time.Time, pruefis ...string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.RecordRun(ctx, &IngestRun{ID: id, Kind: KindAHB, Format: "UTILMD", FormatVersion: fv, GueltigVon: von, GueltigBis: bis, CreatedAt: created}))

	var rows []flatten.Row
	for _, p := range pruefis {
		for i, sp := range []string{"00001", "00000", "00000-00000"} {
			rows = append(rows, flatten.Row{
				ID:                 id + "-" + p + "-" + sp,
				RunID:              id,
				SortPath:           sp,
				IDPath:             []string{"UNT", "SG2", "SG2 > NAD"}[i],
				Format:             "UTILMD",
				FormatVersion:      fv,
				Pruefidentifikator: p,
				GueltigVon:         von,
				GueltigBis:         bis,
				AHBStatus:          "Muss",
			})
		}
	}
	require.NoError(t, s.InsertLines(ctx, KindAHB, rows))
}

func TestLoadAHBLines_NewestRunOrdered(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	von := date(2023, 10, 1)

	ahbRun(t, s, "run-1", "FV2310", date(2023, 9, 1), von, nil, "55001", "55002")
	ahbRun(t, s, "run-2", "FV2310", date(2023, 9, 2), von, nil, "55001")

	rows, err := s.LoadAHBLines(ctx, "FV2310", "55001")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"00000", "00000-00000", "00001"}, []string{rows[0].SortPath, rows[1].SortPath, rows[2].SortPath})
	for _, r := range rows {
		assert.Equal(t, "run-2", r.RunID)
	}

	rows, err = s.LoadAHBLines(ctx, "FV2310", "55002")
	require.NoError(t, err)
	assert.Equal(t, "run-1", rows[0].RunID)

	_, err = s.LoadAHBLines(ctx, "FV2404", "55001")
	assert.ErrorIs(t, err, ErrScopeNotFound)

	pruefis, err := s.ListPruefidentifikatoren(ctx, "FV2310")
	require.NoError(t, err)
	assert.Equal(t, []string{"55001", "55002"}, pruefis)

	fvs, err := s.ListFormatVersions(ctx, KindAHB)
	require.NoError(t, err)
	assert.Equal(t, []string{"FV2310"}, fvs)

	_, err = s.ListFormatVersions(ctx, Kind("edi"))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestLoadMIGLines(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.RecordRun(ctx, &IngestRun{ID: "mig-1", Kind: KindMIG, Format: "UTILMD", FormatVersion: "FV2310"}))
	require.NoError(t, s.InsertLines(ctx, KindMIG, []flatten.Row{
		{ID: "b", RunID: "mig-1", SortPath: "00001", Path: "UTILMD > Ende", Format: "UTILMD", FormatVersion: "FV2310"},
		{ID: "a", RunID: "mig-1", SortPath: "00000", Path: "UTILMD > Kopf", Format: "UTILMD", FormatVersion: "FV2310"},
	}))

	rows, err := s.LoadMIGLines(ctx, "FV2310", "UTILMD")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a", rows[0].ID)

	formats, err := s.ListFormats(ctx, "FV2310")
	require.NoError(t, err)
	assert.Equal(t, []string{"UTILMD"}, formats)

	_, err = s.LoadAHBLines(ctx, "FV2310", "55001")
	assert.ErrorIs(t, err, ErrScopeNotFound)
}

func TestResolutions_Upsert(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveResolutions(ctx, []condition.Resolution{
		{FormatVersion: "FV2310", Format: "UTILMD", Expression: "Muss [1]", Text: "[1] alt"},
		{FormatVersion: "FV2310", Format: "UTILMD", Expression: "Muss [2]", Error: "undefined"},
	}))
	require.NoError(t, s.SaveResolutions(ctx, []condition.Resolution{
		{FormatVersion: "FV2310", Format: "UTILMD", Expression: "Muss [1]", Text: "[1] neu"},
	}))

	got, err := s.LoadResolutions(ctx, "FV2310", "UTILMD")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "[1] neu", got["Muss [1]"].Text)
	assert.Equal(t, "undefined", got["Muss [2]"].Error)
}

func TestSaveDiff(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	oldRows := []flatten.Row{{IDPath: "SG3 > CTA", Pruefidentifikator: "55001", AHBStatus: "Kann", SortPath: "00001"}}
	newRows := []flatten.Row{
		{IDPath: "SG3 > CTA", Pruefidentifikator: "55001", AHBStatus: "Muss", SortPath: "00001"},
		{IDPath: "UNH", Pruefidentifikator: "55001", AHBStatus: "Muss", SortPath: "00000"},
	}
	result := diff.Diff(diff.AHBAdapter{}, diff.Versions{Scope: "55001", Old: "FV2304", New: "FV2310"}, oldRows, newRows)

	id, err := s.SaveDiff(ctx, result)
	require.NoError(t, err)

	report, lines, err := s.LoadDiff(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Modified)
	require.Len(t, lines, 2)
	assert.Equal(t, diff.StatusAdded, lines[0].DiffStatus)
	assert.Nil(t, lines[0].OldAHBStatus)
	assert.Equal(t, "ahb_status", lines[1].ChangedColumns)

	_, _, err = s.LoadDiff(ctx, "missing")
	assert.ErrorIs(t, err, ErrScopeNotFound)
}

func TestCompaction(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	von := date(2023, 10, 1)
	bis := date(2024, 4, 3)

	ahbRun(t, s, "run-1", "FV2310", date(2023, 9, 1), von, &bis, "55001", "55002")
	ahbRun(t, s, "run-2", "FV2310", date(2023, 9, 2), von, &bis, "55001")
	ahbRun(t, s, "run-3", "FV2310", date(2023, 9, 3), von, &bis, "55002")
	ahbRun(t, s, "run-4", "FV2404", date(2024, 3, 1), bis, nil, "55001")

	plan, err := s.PlanCompaction(ctx)
	require.NoError(t, err)
	assert.Equal(t, CompactionSummary{Scopes: 3, SupersededRuns: 1, DeletedRuns: 1, Rows: 6}, plan.Summary)
	require.Len(t, plan.Actions, 3)
	assert.Equal(t, ActionDeleteRun, plan.Actions[2].Type)
	assert.Equal(t, "run-1", plan.Actions[2].RunID)

	t.Run("confirmation gating", func(t *testing.T) {
		n, err := s.ApplyCompaction(ctx, plan, CompactionOptions{Confirmed: true, DryRun: true})
		require.NoError(t, err)
		assert.Zero(t, n)
		n, err = s.ApplyCompaction(ctx, plan, CompactionOptions{})
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	n, err := s.ApplyCompaction(ctx, plan, CompactionOptions{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var count int64
	require.NoError(t, s.DB().Model(&AHBLine{}).Where("run_id = ?", "run-1").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, s.DB().Model(&IngestRun{}).Where("id = ?", "run-1").Count(&count).Error)
	assert.Zero(t, count)

	again, err := s.PlanCompaction(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Actions)
}

func TestCompaction_ValidityOverlap(t *testing.T) {
	s := setupStore(t)

	ahbRun(t, s, "run-1", "FV2310", date(2023, 9, 1), date(2023, 10, 1), nil, "55001")
	ahbRun(t, s, "run-2", "FV2404", date(2024, 3, 1), date(2024, 4, 3), nil, "55001")

	_, err := s.PlanCompaction(context.Background())
	require.ErrorIs(t, err, ErrValidityOverlap)
	assert.Contains(t, err.Error(), "55001")
}

func TestInsertLines_Errors(t *testing.T) {
	s := setupStore(t)
	err := s.InsertLines(context.Background(), Kind("edi"), []flatten.Row{{ID: "x"}})
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.NoError(t, s.InsertLines(context.Background(), KindAHB, nil))
}

func TestListFormatVersions_DatabaseError(t *testing.T) {
	s, mock := setupMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT `format_version` FROM `ahb_lines`")).
		WillReturnError(errors.New("connection reset"))

	_, err := s.ListFormatVersions(context.Background(), KindAHB)
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRun_DatabaseError(t *testing.T) {
	s, mock := setupMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `ingest_runs`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	run := &IngestRun{Kind: KindMIG}
	err := s.RecordRun(context.Background(), run)
	assert.ErrorContains(t, err, "disk full")
	assert.NotEmpty(t, run.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func persistRows(runID string) []flatten.Row {
	return []flatten.Row{
		{ID: runID + "-1", SortPath: "00000", IDPath: "UNH", Format: "UTILMD", FormatVersion: "FV2410", Pruefidentifikator: "55001", AHBStatus: "Muss"},
		{ID: runID + "-2", SortPath: "00001", IDPath: "SG2", Format: "UTILMD", FormatVersion: "FV2410", Pruefidentifikator: "55001", AHBStatus: "Muss [1]"},
	}
}

func TestPersist(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	run := &IngestRun{Kind: KindAHB, Format: "UTILMD", FormatVersion: "FV2410", GueltigVon: date(2024, 10, 1)}

	err := s.Persist(ctx, run, persistRows("a"), []condition.Resolution{
		{FormatVersion: "FV2410", Format: "UTILMD", Expression: "Muss [1]", Text: "[1] Wenn vorhanden"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	rows, err := s.LoadAHBLines(ctx, "FV2410", "55001")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, run.ID, rows[0].RunID)

	got, err := s.LoadResolutions(ctx, "FV2410", "UTILMD")
	require.NoError(t, err)
	assert.Equal(t, "[1] Wenn vorhanden", got["Muss [1]"].Text)
}

func TestPersist_RollsBackOnResolutionFailure(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.DB().Migrator().DropTable(&ConditionResolution{}))

	run := &IngestRun{Kind: KindAHB, Format: "UTILMD", FormatVersion: "FV2410", GueltigVon: date(2024, 10, 1)}
	err := s.Persist(ctx, run, persistRows("b"), []condition.Resolution{
		{FormatVersion: "FV2410", Format: "UTILMD", Expression: "Muss [1]", Text: "[1] Wenn vorhanden"},
	})
	require.Error(t, err)

	_, err = s.LoadAHBLines(ctx, "FV2410", "55001")
	assert.ErrorIs(t, err, ErrScopeNotFound)

	var runs int64
	require.NoError(t, s.DB().Model(&IngestRun{}).Count(&runs).Error)
	assert.Zero(t, runs)
}

func TestPersist_UnknownKind(t *testing.T) {
	s := setupStore(t)
	err := s.Persist(context.Background(), &IngestRun{Kind: Kind("edi")}, nil, nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestResolutions_LongExpression(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	expr := "Muss " + strings.Repeat("[1] ∧ ", 300) + "[2]"

	require.NoError(t, s.SaveResolutions(ctx, []condition.Resolution{
		{FormatVersion: "FV2410", Format: "UTILMD", Expression: expr, Text: "lang"},
		{FormatVersion: "FV2410", Format: "UTILMD", Expression: "Muss [1]", Text: "kurz"},
	}))

	got, err := s.LoadResolutions(ctx, "FV2410", "UTILMD")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "lang", got[expr].Text)
	assert.NotEqual(t, ExpressionHash(expr), ExpressionHash("Muss [1]"))
}
