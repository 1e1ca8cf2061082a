// Package convert orchestrates one conversion run: map every row, persist
// the mapped workbook, publish the items and aggregate the outcome.
package convert

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boolchand/esl-sync/internal/esl"
	"github.com/boolchand/esl-sync/internal/pricing"
	"github.com/boolchand/esl-sync/internal/sheet"
)

// ErrNoValidItems is returned when not a single row maps to a valid record.
// Nothing is persisted and no network call is made in that case.
var ErrNoValidItems = errors.New("no valid items found")

// Publisher sends mapped items to the ESL platform.
type Publisher interface {
	Publish(ctx context.Context, items []esl.Item) (*esl.Report, error)
}

// Skip records one dropped row and why it was dropped.
type Skip struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result is the consolidated outcome of one conversion.
type Result struct {
	ConversionID string
	TotalRows    int
	TotalItems   int
	Skipped      []Skip
	Report       *esl.Report
	OutputPath   string
	Timings      Timings
}

// Service drives the mapper over uploaded rows and hands the survivors to
// the publisher. Conversions are serialized: they share one output file.
type Service struct {
	mapper     *pricing.Mapper
	publisher  Publisher
	outputPath string
	log        *zap.Logger

	mu sync.Mutex
}

// NewService creates a conversion service writing the mapped workbook to
// outputPath.
func NewService(mapper *pricing.Mapper, publisher Publisher, outputPath string, log *zap.Logger) *Service {
	return &Service{
		mapper:     mapper,
		publisher:  publisher,
		outputPath: outputPath,
		log:        log,
	}
}

// OutputPath returns the location of the last mapped workbook.
func (s *Service) OutputPath() string {
	return s.outputPath
}

// Convert maps every row, skipping and recording the ones that fail, then
// persists the mapped set and publishes it. Zero valid rows abort with
// ErrNoValidItems before anything touches disk or network.
func (s *Service) Convert(ctx context.Context, rows []sheet.Row) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	log := s.log.With(zap.String("conversionId", id))

	var timings Timings
	mapStart := time.Now()

	items := make([]esl.Item, 0, len(rows))
	var skipped []Skip
	for _, row := range rows {
		item, err := s.mapper.MapRow(row)
		if err != nil {
			skipped = append(skipped, Skip{Row: row.Number(), Reason: err.Error()})
			log.Warn("skipping row",
				zap.Int("row", row.Number()),
				zap.String("reason", err.Error()))
			continue
		}
		items = append(items, item)
	}
	timings.Map = time.Since(mapStart)

	if len(items) == 0 {
		return nil, ErrNoValidItems
	}

	writeStart := time.Now()
	if err := sheet.WriteWorkbook(s.outputPath, items); err != nil {
		return nil, fmt.Errorf("write mapped workbook: %w", err)
	}
	timings.Write = time.Since(writeStart)

	publishStart := time.Now()
	report, err := s.publisher.Publish(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	timings.Publish = time.Since(publishStart)

	fields := []zap.Field{
		zap.Int("totalRows", len(rows)),
		zap.Int("totalItems", len(items)),
		zap.Int("rowsSkipped", len(skipped)),
		zap.Int("batchesSent", report.BatchesSent),
	}
	log.Info("conversion complete", append(fields, timings.Fields()...)...)

	return &Result{
		ConversionID: id,
		TotalRows:    len(rows),
		TotalItems:   len(items),
		Skipped:      skipped,
		Report:       report,
		OutputPath:   s.outputPath,
		Timings:      timings,
	}, nil
}
