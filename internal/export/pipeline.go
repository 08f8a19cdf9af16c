package export

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"sort"
	"sync/atomic"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/mirefly/paperdiary/internal/model"
	appErr "github.com/mirefly/paperdiary/internal/pkg/errors"
	"github.com/mirefly/paperdiary/internal/pkg/timeutil"
	"github.com/mirefly/paperdiary/internal/render"
)

// Request selects the inclusive date range and fidelity of one export.
type Request struct {
	StartDate string
	EndDate   string
	Quality   Quality
}

// Result is the finished document plus enough metadata to name and
// log it.
type Result struct {
	PDF       []byte
	Pages     int
	StartDate string
	EndDate   string
	Quality   Quality
}

// FileName derives the deterministic artifact name for a range.
func FileName(startDate, endDate string) string {
	return fmt.Sprintf("diary-export-%s-to-%s.pdf", startDate, endDate)
}

// Pipeline turns a slice of the store's snapshot into a paginated PDF,
// one rasterized page per entry. It owns the single off-screen surface,
// so runs are strictly serialized: a second export while one is in
// flight is rejected rather than interleaved.
type Pipeline struct {
	page    *render.Page
	surface *render.Surface
	busy    atomic.Bool
}

func NewPipeline(page *render.Page, surface *render.Surface) *Pipeline {
	return &Pipeline{page: page, surface: surface}
}

// Export runs the full pipeline: validate, filter and sort, then the
// sequential render-capture loop. ctx is checked between iterations;
// cancelling it discards the partial document. Either every entry in
// the range makes it into the PDF or an error is returned, there is no
// partial artifact.
func (p *Pipeline) Export(ctx context.Context, snapshot []model.DiaryEntry, req Request) (*Result, error) {
	start, err := timeutil.ParseDay(req.StartDate)
	if err != nil {
		return nil, appErr.ErrInvalid
	}
	end, err := timeutil.ParseDay(req.EndDate)
	if err != nil {
		return nil, appErr.ErrInvalid
	}
	if start.After(end) {
		return nil, appErr.ErrInvalidRange
	}

	selected := selectRange(ctx, snapshot, start, end)
	if len(selected) == 0 {
		return nil, appErr.ErrEmptyRange
	}

	if !p.busy.CompareAndSwap(false, true) {
		return nil, appErr.ErrExportBusy
	}
	defer p.busy.Store(false)
	// The surface is released even when a page fails mid-loop.
	defer p.surface.Clear()

	settings := req.Quality.settings()
	logger := logutil.GetLogger(ctx).With(
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
		zap.String("quality", string(req.Quality)),
		zap.Int("entries", len(selected)),
	)
	began := time.Now()

	pdf := fpdf.New("P", "mm", "A4", "")
	opts := fpdf.ImageOptions{ImageType: settings.ImageType}
	for i, entry := range selected {
		if err := ctx.Err(); err != nil {
			logger.Info("export cancelled", zap.Int("rendered", i))
			return nil, err
		}
		// One entry in flight at a time: the surface holds a single
		// page, so entry i must be captured before i+1 starts.
		p.surface.Reset(settings.Scale)
		if err := p.page.Render(p.surface, entry); err != nil {
			return nil, fmt.Errorf("%w: entry %s: %s", appErr.ErrRenderCapture, entry.Date, err)
		}
		encoded, err := encodePage(p.surface, settings)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %s: %s", appErr.ErrRenderCapture, entry.Date, err)
		}
		appendPage(pdf, opts, fmt.Sprintf("page-%d", i), encoded, p.surface)
	}
	if pdf.Err() {
		return nil, fmt.Errorf("%w: assemble document: %s", appErr.ErrRenderCapture, pdf.Error())
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: write document: %s", appErr.ErrRenderCapture, err)
	}
	logger.Info("export finished",
		zap.Int("pages", len(selected)),
		zap.Int("bytes", out.Len()),
		zap.Duration("duration", time.Since(began)),
	)
	return &Result{
		PDF:       out.Bytes(),
		Pages:     len(selected),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Quality:   req.Quality,
	}, nil
}

// selectRange keeps entries whose day falls inside [start, end] and
// orders them ascending, regardless of the snapshot's own ordering.
func selectRange(ctx context.Context, snapshot []model.DiaryEntry, start, end time.Time) []model.DiaryEntry {
	selected := make([]model.DiaryEntry, 0, len(snapshot))
	for _, entry := range snapshot {
		day, err := timeutil.ParseDay(entry.Date)
		if err != nil {
			logutil.GetLogger(ctx).Warn("skipping entry with malformed date",
				zap.String("id", entry.ID), zap.String("date", entry.Date))
			continue
		}
		if day.Before(start) || day.After(end) {
			continue
		}
		selected = append(selected, entry)
	}
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Date < selected[j].Date
	})
	return selected
}

func encodePage(surface *render.Surface, settings qualitySettings) ([]byte, error) {
	var buf bytes.Buffer
	switch settings.ImageType {
	case "PNG":
		if err := png.Encode(&buf, surface.Image()); err != nil {
			return nil, err
		}
	default:
		quality := int(settings.EncodeQuality * 100)
		if err := jpeg.Encode(&buf, surface.Image(), &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// appendPage places one captured page image onto a fresh PDF page,
// scaled to the full page width with the height clamped so the image is
// never stretched beyond the sheet.
func appendPage(pdf *fpdf.Fpdf, opts fpdf.ImageOptions, name string, encoded []byte, surface *render.Surface) {
	bounds := surface.Image().Bounds()
	ratio := float64(bounds.Dy()) / float64(bounds.Dx())
	height := render.PageWidthMM * ratio
	if height > render.PageHeightMM {
		height = render.PageHeightMM
	}
	pdf.AddPage()
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(encoded))
	pdf.ImageOptions(name, 0, 0, render.PageWidthMM, height, false, opts, 0, "")
}
