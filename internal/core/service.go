package core

// service.go wires the conversion pipeline, the concurrency limiter,
// and the artifact store into the single entry point used by the web
// layer.

import (
	"context"
	"log/slog"
	"time"
)

// OutputFileName is the attachment name served on download.
const OutputFileName = "converted_currency.csv"

// ServiceOptions configures a Service. Zero values select defaults.
type ServiceOptions struct {
	MaxConcurrent int           // parallel conversion requests
	MaxWait       time.Duration // wait for a conversion slot
	RowWorkers    int           // parallel rows within one batch
	ArtifactTTL   time.Duration // retention for undownloaded output
}

// Service executes conversion requests end to end: parse, convert,
// render output, stash the artifact for download.
type Service struct {
	pipeline  *Pipeline
	limiter   *ConvertLimiter
	artifacts *ArtifactStore
}

// NewService creates a Service using rates for per-row lookups.
func NewService(rates RateSource, opts ServiceOptions) *Service {
	return &Service{
		pipeline:  NewPipeline(rates, opts.RowWorkers),
		limiter:   NewConvertLimiter(opts.MaxConcurrent, opts.MaxWait),
		artifacts: NewArtifactStore(opts.ArtifactTTL),
	}
}

// ConvertResult is the response payload for a conversion request.
type ConvertResult struct {
	Stats         ProcessingStats
	DownloadToken string
}

// Convert processes one uploaded CSV file. It acquires a conversion
// slot (ErrTooManyConversions under load), runs the batch, and stores
// the rendered output for download. A *ValidationError means the batch
// was rejected and no artifact was produced.
func (s *Service) Convert(ctx context.Context, upload []byte, base, target string) (*ConvertResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	header, rows, err := ParseUpload(upload)
	if err != nil {
		return nil, err
	}

	result, err := s.pipeline.Convert(ctx, header, rows, base, target)
	if err != nil {
		return nil, err
	}

	data, err := WriteCSV(result.Fields, result.Rows)
	if err != nil {
		return nil, err
	}
	token := s.artifacts.Put(OutputFileName, data)

	slog.Info("conversion complete",
		"base", base,
		"target", target,
		"total", result.Stats.TotalRows,
		"converted", result.Stats.SuccessfulConversions,
		"failed", result.Stats.FailedConversions,
	)

	return &ConvertResult{Stats: result.Stats, DownloadToken: token}, nil
}

// TakeArtifact removes and returns the output file for token.
func (s *Service) TakeArtifact(token string) (Artifact, bool) {
	return s.artifacts.Take(token)
}

// ActiveConversions returns the number of conversions in flight.
func (s *Service) ActiveConversions() int {
	return s.limiter.ActiveCount()
}

// WaitForConversions blocks until in-flight conversions finish or ctx
// expires. Used during graceful shutdown.
func (s *Service) WaitForConversions(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
