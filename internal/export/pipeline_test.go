package export

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mirefly/paperdiary/internal/model"
	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
	"github.com/mirefly/paperdiary/internal/pkg/timeutil"
	"github.com/mirefly/paperdiary/internal/render"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	fonts, err := render.LoadFonts()
	require.NoError(t, err)
	images, err := render.NewImageDecoder(4)
	require.NoError(t, err)
	return NewPipeline(render.NewPage(fonts, images), render.NewSurface())
}

func testEntry(id, date string) model.DiaryEntry {
	return model.DiaryEntry{
		ID:      id,
		Date:    date,
		Content: "wrote some words on " + date,
		Ideas:   "an idea from " + date,
	}
}

func TestExportPageCountMatchesRange(t *testing.T) {
	pipeline := newTestPipeline(t)
	// Snapshot arrives newest first, the way the store hands it out.
	snapshot := []model.DiaryEntry{
		testEntry("e3", "2024-01-05"),
		testEntry("e2", "2024-01-03"),
		testEntry("e1", "2024-01-01"),
	}

	result, err := pipeline.Export(context.Background(), snapshot, Request{
		StartDate: "2024-01-02",
		EndDate:   "2024-01-05",
		Quality:   QualityLow,
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Pages)
	require.NotEmpty(t, result.PDF)
	require.Equal(t, "%PDF", string(result.PDF[:4]))
}

func TestExportRejectsInvertedRange(t *testing.T) {
	pipeline := newTestPipeline(t)
	snapshot := []model.DiaryEntry{testEntry("e1", "2024-01-01")}

	_, err := pipeline.Export(context.Background(), snapshot, Request{
		StartDate: "2024-02-01",
		EndDate:   "2024-01-01",
		Quality:   QualityLow,
	})
	require.ErrorIs(t, err, appErr.ErrInvalidRange)
}

func TestExportRejectsEmptyRange(t *testing.T) {
	pipeline := newTestPipeline(t)
	snapshot := []model.DiaryEntry{testEntry("e1", "2024-01-01")}

	_, err := pipeline.Export(context.Background(), snapshot, Request{
		StartDate: "2024-06-01",
		EndDate:   "2024-06-30",
		Quality:   QualityLow,
	})
	require.ErrorIs(t, err, appErr.ErrEmptyRange)
}

func TestExportRejectsMalformedDates(t *testing.T) {
	pipeline := newTestPipeline(t)

	_, err := pipeline.Export(context.Background(), nil, Request{
		StartDate: "01/01/2024",
		EndDate:   "2024-01-05",
		Quality:   QualityLow,
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = pipeline.Export(context.Background(), nil, Request{
		StartDate: "2024-01-01",
		EndDate:   "",
		Quality:   QualityLow,
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestExportSingleDayRange(t *testing.T) {
	pipeline := newTestPipeline(t)
	snapshot := []model.DiaryEntry{
		testEntry("e1", "2024-01-01"),
		testEntry("e2", "2024-01-03"),
	}

	result, err := pipeline.Export(context.Background(), snapshot, Request{
		StartDate: "2024-01-03",
		EndDate:   "2024-01-03",
		Quality:   QualityLow,
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Pages)
}

func TestExportSkipsMalformedEntryDates(t *testing.T) {
	pipeline := newTestPipeline(t)
	snapshot := []model.DiaryEntry{
		testEntry("e1", "2024-01-01"),
		testEntry("bad", "not-a-date"),
		testEntry("e2", "2024-01-02"),
	}

	result, err := pipeline.Export(context.Background(), snapshot, Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-12-31",
		Quality:   QualityLow,
	})
	require.NoError(t, err)
	require.Equal(t, 2, result.Pages)
}

func TestExportRejectedWhileBusy(t *testing.T) {
	pipeline := newTestPipeline(t)
	snapshot := []model.DiaryEntry{testEntry("e1", "2024-01-01")}
	pipeline.busy.Store(true)

	_, err := pipeline.Export(context.Background(), snapshot, Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
		Quality:   QualityLow,
	})
	require.ErrorIs(t, err, appErr.ErrExportBusy)

	pipeline.busy.Store(false)
	_, err = pipeline.Export(context.Background(), snapshot, Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
		Quality:   QualityLow,
	})
	require.NoError(t, err)
}

func TestExportStopsOnCancelledContext(t *testing.T) {
	pipeline := newTestPipeline(t)
	snapshot := []model.DiaryEntry{testEntry("e1", "2024-01-01")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pipeline.Export(ctx, snapshot, Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
		Quality:   QualityLow,
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, pipeline.busy.Load())
}

func TestExportReleasesSurface(t *testing.T) {
	pipeline := newTestPipeline(t)
	snapshot := []model.DiaryEntry{testEntry("e1", "2024-01-01")}

	_, err := pipeline.Export(context.Background(), snapshot, Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
		Quality:   QualityHigh,
	})
	require.NoError(t, err)
	require.False(t, pipeline.surface.Ready())
	require.False(t, pipeline.busy.Load())
}

func TestSelectRangeSortsAscending(t *testing.T) {
	start, err := timeutil.ParseDay("2024-01-01")
	require.NoError(t, err)
	end, err := timeutil.ParseDay("2024-01-31")
	require.NoError(t, err)

	snapshot := []model.DiaryEntry{
		testEntry("e2", "2024-01-15"),
		testEntry("e3", "2024-01-20"),
		testEntry("e1", "2024-01-02"),
	}
	selected := selectRange(context.Background(), snapshot, start, end)
	require.Len(t, selected, 3)
	require.Equal(t, "2024-01-02", selected[0].Date)
	require.Equal(t, "2024-01-15", selected[1].Date)
	require.Equal(t, "2024-01-20", selected[2].Date)
}
