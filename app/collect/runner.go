package collect

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mediacomb/media-comb/app/mention"
	"github.com/mediacomb/media-comb/app/profile"
	"github.com/mediacomb/media-comb/app/sheets"
	"github.com/mediacomb/media-comb/app/sources"
)

// CollectionError is one upstream source failure, recovered locally by
// the runner and surfaced as a single entry in the report's error list.
type CollectionError struct {
	Source string
	Err    error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Err)
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// Sink receives formatted mention tables, one write per source.
type Sink interface {
	Update(ctx context.Context, apiKey, spreadsheetID, rangeName string, values mention.Table) error
}

// Progress is an optional observer for run status. It is cosmetic and
// never gates correctness.
type Progress func(percent int, status string)

// Runner fans a collection run out to every enabled source, collects
// successes and failures independently, and reduces everything to one
// report. One source failing never prevents the others from running or
// being reported.
type Runner struct {
	sources []sources.Source
	sink    Sink
}

func NewRunner(srcs []sources.Source, sink Sink) *Runner {
	return &Runner{
		sources: srcs,
		sink:    sink,
	}
}

// Run executes one collection run for a profile. The returned report
// is never mutated afterwards.
func (r *Runner) Run(ctx context.Context, p *profile.Profile, progress Progress) *mention.Report {
	report := &mention.Report{
		RunID:     uuid.NewString(),
		Results:   make(map[mention.Source][]mention.Mention),
		Errors:    []string{},
		StartedAt: time.Now().UTC(),
	}

	notify(progress, 10, "Starting collection...")

	var enabled []sources.Source
	for _, source := range r.sources {
		if source.Enabled(p) {
			enabled = append(enabled, source)
		} else {
			slog.Debug("Source not enabled, skipping", "source", source.Name(), "profile", p.ClientName)
		}
	}

	// Each source writes only to its own slot; the mutex guards the
	// shared error list and progress counter.
	var mu sync.Mutex
	var wg sync.WaitGroup
	completed := 0

	for _, source := range enabled {
		wg.Add(1)
		go func(source sources.Source) {
			defer wg.Done()

			mentions, err := source.Collect(ctx, p)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				collectionErr := &CollectionError{Source: source.Name(), Err: err}
				slog.Warn("Source collection failed", "source", source.Name(), "profile", p.ClientName, "error", err)
				report.Errors = append(report.Errors, collectionErr.Error())
			} else {
				report.Results[source.Tag()] = mentions
				slog.Info("Source collection complete", "source", source.Name(), "profile", p.ClientName, "count", len(mentions))
			}

			completed++
			notify(progress, 10+70*completed/max(len(enabled), 1),
				fmt.Sprintf("Collected %s data", source.Name()))
		}(source)
	}

	wg.Wait()

	// Error order should not depend on goroutine scheduling
	sort.Strings(report.Errors)

	if p.SinkConfigured() && report.Total() > 0 {
		notify(progress, 85, "Updating Google Sheets...")
		r.writeToSink(ctx, p, report, enabled)
	}

	notify(progress, 100, "Collection complete!")

	slog.Info("Collection run finished",
		"run_id", report.RunID,
		"profile", p.ClientName,
		"total", report.Total(),
		"errors", len(report.Errors),
		"duration", time.Since(report.StartedAt))

	return report
}

// writeToSink dispatches one write per non-empty source. A failed
// write is surfaced on the error list and does not invalidate
// already-collected mentions or roll back the other writes.
func (r *Runner) writeToSink(ctx context.Context, p *profile.Profile, report *mention.Report, enabled []sources.Source) {
	for _, source := range enabled {
		mentions := report.Results[source.Tag()]
		if len(mentions) == 0 {
			continue
		}

		table := mention.ToTable(mentions, source.Tag())
		rangeName := sheets.Range(source.Tag(), len(table))

		if err := r.sink.Update(ctx, p.GoogleAPIKey, p.GoogleSheetsID, rangeName, table); err != nil {
			slog.Warn("Sheet write failed", "source", source.Name(), "range", rangeName, "error", err)
			report.Errors = append(report.Errors, fmt.Sprintf("Sheets: %s", err))
		}
	}
}

func notify(progress Progress, percent int, status string) {
	if progress != nil {
		progress(percent, status)
	}
}
