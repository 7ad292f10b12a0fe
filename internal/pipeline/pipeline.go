// Package pipeline wires text extraction, field parsing, record building
// and row generation into one parse-and-generate call per document.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shinsei-trade/permit-ledger/internal/ledger"
	"github.com/shinsei-trade/permit-ledger/internal/parse"
	"github.com/shinsei-trade/permit-ledger/internal/permit"
)

// TextExtractor turns a document into its linear text representation.
type TextExtractor interface {
	TextFromFile(path string) (string, error)
}

// FallbackParser extracts the raw field mapping when the anchor parser
// cannot. Optional; nil disables the fallback.
type FallbackParser interface {
	Parse(ctx context.Context, text string) (*parse.Fields, error)
}

// Result is the outcome of processing a single document.
type Result struct {
	Permit *permit.ImportPermit
	Rows   []ledger.Row
}

// BatchItem records one document's outcome inside a batch. Exactly one of
// Result and Err is set.
type BatchItem struct {
	Source string
	Result *Result
	Err    error
}

// Pipeline processes permit documents. Each call is an independent,
// synchronous transformation with no shared mutable state, so callers may
// run any number of them concurrently.
type Pipeline struct {
	extractor TextExtractor
	parser    *parse.Parser
	builder   *permit.Builder
	generator *ledger.Generator
	fallback  FallbackParser
	logger    *zap.Logger
}

// New creates a pipeline. fallback may be nil.
func New(extractor TextExtractor, parser *parse.Parser, builder *permit.Builder, generator *ledger.Generator, fallback FallbackParser, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		parser:    parser,
		builder:   builder,
		generator: generator,
		fallback:  fallback,
		logger:    logger,
	}
}

// Process runs extract → parse → build → generate for one document and
// annotates any stage failure with the document reference.
func (p *Pipeline) Process(ctx context.Context, path string) (*Result, error) {
	text, err := p.extractor.TextFromFile(path)
	if err != nil {
		return nil, err
	}

	fields, err := p.parser.Parse(text)
	if err != nil {
		if p.fallback == nil {
			return nil, fmt.Errorf("document %s: %w", path, err)
		}
		p.logger.Warn("anchor parse failed, trying AI fallback",
			zap.String("source", path),
			zap.Error(err))
		fields, err = p.fallback.Parse(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", path, err)
		}
	}

	record, err := p.builder.Build(fields, path)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", path, err)
	}

	rows := p.generator.Generate(record)

	p.logger.Info("processed import permit",
		zap.String("source", path),
		zap.String("permit_number", record.PermitNumber),
		zap.String("total_amount", record.TotalAmount.String()),
		zap.Int("rows", len(rows)))

	return &Result{Permit: record, Rows: rows}, nil
}

// ProcessBatch processes paths concurrently, at most limit documents at a
// time (limit <= 0 means unbounded). One document's failure never aborts
// the batch; outcomes come back in input order.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string, limit int) []BatchItem {
	items := make([]BatchItem, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			result, err := p.Process(ctx, path)
			items[i] = BatchItem{Source: path, Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return items
}
