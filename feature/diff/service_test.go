package diff

import (
	"context"
	"testing"
	"time"

	"ahb-manager/core/database"
	engine "ahb-manager/core/diff"
	"ahb-manager/core/flatten"
	"ahb-manager/core/formatversion"
	"ahb-manager/core/model"
	"ahb-manager/core/storage/mocks"
	"ahb-manager/core/store"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	st := store.New(db, 0)
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func contactAWF(pruefi, ctaStatus string) model.Anwendungsfall {
	return model.Anwendungsfall{Pruefidentifikator: pruefi, Format: "UTILMD", Children: []model.Node{
		{Segment: &model.Segment{ID: "UNH", Name: "Nachrichten-Kopfsegment", Number: "00001", AHBStatus: "Muss"}},
		{Group: &model.SegmentGroup{ID: "SG3", Name: "Ansprechpartner", AHBStatus: "Kann", Children: []model.Node{
			{Segment: &model.Segment{ID: "CTA", Name: "Ansprechpartner", Number: "00007", AHBStatus: ctaStatus}},
		}}},
	}}
}

func seedAHB(t *testing.T, st *store.Store, fv string, awfs ...model.Anwendungsfall) {
	t.Helper()
	ctx := context.Background()
	von, err := formatversion.Start(fv)
	require.NoError(t, err)

	run := &store.IngestRun{Kind: store.KindAHB, Format: "UTILMD", FormatVersion: fv, GueltigVon: von}
	require.NoError(t, st.RecordRun(ctx, run))

	var rows []flatten.Row
	for _, awf := range awfs {
		r, err := flatten.New().Anwendungsfall(flatten.Meta{FormatVersion: fv, GueltigVon: von}, awf)
		require.NoError(t, err)
		rows = append(rows, r...)
	}
	flatten.Fingerprint(rows)
	for i := range rows {
		rows[i].RunID = run.ID
	}
	require.NoError(t, st.InsertLines(ctx, store.KindAHB, rows))
}

func seedMIG(t *testing.T, st *store.Store, fv string, mig *model.MessageImplementationGuide) {
	t.Helper()
	ctx := context.Background()
	von, err := formatversion.Start(fv)
	require.NoError(t, err)

	run := &store.IngestRun{Kind: store.KindMIG, Format: mig.Format, FormatVersion: fv, GueltigVon: von}
	require.NoError(t, st.RecordRun(ctx, run))
	rows, err := flatten.New().MIG(flatten.Meta{FormatVersion: fv, GueltigVon: von}, mig)
	require.NoError(t, err)
	for i := range rows {
		rows[i].RunID = run.ID
	}
	require.NoError(t, st.InsertLines(ctx, store.KindMIG, rows))
}

func TestService_DiffAHB(t *testing.T) {
	st := setupStore(t)
	seedAHB(t, st, "FV2404", contactAWF("55001", "Kann"))
	seedAHB(t, st, "FV2410", contactAWF("55001", "Muss"), contactAWF("55002", "Muss"))
	svc := NewService(st, engine.NewCache(time.Minute), nil, "edifact", zap.NewNop())
	ctx := context.Background()

	t.Run("Modified", func(t *testing.T) {
		result, err := svc.DiffAHB(ctx, "FV2404", "FV2410", "55001")
		require.NoError(t, err)
		assert.Equal(t, engine.Summary{Total: 3, Modified: 1, Unchanged: 2}, result.Summary)

		changes := result.Changes()
		require.Len(t, changes, 1)
		assert.Equal(t, "SG3 > CTA", changes[0].IDPath)
		assert.Equal(t, "ahb_status", changes[0].ChangedColumns)
	})

	t.Run("Scope On One Side", func(t *testing.T) {
		result, err := svc.DiffAHB(ctx, "FV2404", "FV2410", "55002")
		require.NoError(t, err)
		assert.Equal(t, 3, result.Summary.Added)
	})

	t.Run("Scope Missing", func(t *testing.T) {
		_, err := svc.DiffAHB(ctx, "FV2404", "FV2410", "99999")
		assert.ErrorIs(t, err, store.ErrScopeNotFound)
	})

	t.Run("Invalid Format Version", func(t *testing.T) {
		_, err := svc.DiffAHB(ctx, "2404", "FV2410", "55001")
		assert.ErrorIs(t, err, formatversion.ErrInvalidFormatVersion)
	})
}

func TestService_DiffAHB_UsesCache(t *testing.T) {
	st := setupStore(t)
	seedAHB(t, st, "FV2404", contactAWF("55001", "Kann"))
	seedAHB(t, st, "FV2410", contactAWF("55001", "Kann"))
	cache := engine.NewCache(time.Minute)
	svc := NewService(st, cache, nil, "edifact", zap.NewNop())

	_, err := svc.DiffAHB(context.Background(), "FV2404", "FV2410", "55001")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
}

func TestService_DiffMIG(t *testing.T) {
	st := setupStore(t)
	mig := func(status model.Status) *model.MessageImplementationGuide {
		return &model.MessageImplementationGuide{Format: "UTILMD", Children: []model.Node{
			{Segment: &model.Segment{ID: "NAD", Name: "Name und Adresse", Number: "00005", StatusStd: model.StatusMandatory, StatusSpecification: status}},
		}}
	}
	seedMIG(t, st, "FV2404", mig(model.StatusRequired))
	seedMIG(t, st, "FV2410", mig(model.StatusMandatory))
	svc := NewService(st, nil, nil, "edifact", zap.NewNop())

	result, err := svc.DiffMIG(context.Background(), "FV2404", "FV2410", "UTILMD")
	require.NoError(t, err)
	assert.Equal(t, "mig", result.Kind)
	assert.Equal(t, 1, result.Summary.Modified)
	assert.Equal(t, "status_specification", result.Lines[0].ChangedColumns)
}

func TestService_SaveAndExport(t *testing.T) {
	st := setupStore(t)
	seedAHB(t, st, "FV2404", contactAWF("55001", "Kann"))
	seedAHB(t, st, "FV2410", contactAWF("55001", "Muss"))
	client := new(mocks.Client)
	svc := NewService(st, nil, client, "edifact", zap.NewNop())
	ctx := context.Background()

	result, err := svc.DiffAHB(ctx, "FV2404", "FV2410", "55001")
	require.NoError(t, err)

	id, err := svc.Save(ctx, result)
	require.NoError(t, err)
	report, lines, err := st.LoadDiff(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Modified)
	assert.Len(t, lines, 3)

	client.On("PutObject", mock.Anything, "edifact", "diff/ahb_55001_FV2404_FV2410.yaml", mock.Anything, mock.Anything,
		minio.PutObjectOptions{ContentType: "application/yaml"}).Return(minio.UploadInfo{}, nil)
	key, err := svc.Export(ctx, result, "yaml")
	require.NoError(t, err)
	assert.Equal(t, "diff/ahb_55001_FV2404_FV2410.yaml", key)
	client.AssertExpectations(t)

	_, err = svc.Export(ctx, result, "xlsx")
	assert.ErrorIs(t, err, ErrUnknownExportFormat)
}

func TestService_ExportWithoutStorage(t *testing.T) {
	svc := NewService(setupStore(t), nil, nil, "edifact", zap.NewNop())
	_, err := svc.Export(context.Background(), &engine.Result{}, "json")
	assert.ErrorContains(t, err, "storage is not configured")
}
