package receipt

import (
	"context"
	"errors"
	"log/slog"

	"github.com/abhiatluri/NutritionTracker/internal/model"
	"github.com/abhiatluri/NutritionTracker/internal/nutrition"
	"github.com/abhiatluri/NutritionTracker/internal/ocr"
)

// Extractor converts a receipt image into raw text. Satisfied by
// *ocr.TextExtractor; tests substitute fakes.
type Extractor interface {
	Extract(ctx context.Context, imagePath string) (string, error)
}

// Pipeline is the sequential receipt composition: extraction, parsing,
// and per-item nutrition resolution.
type Pipeline struct {
	// extractor converts the image into text.
	extractor Extractor

	// parser converts text into line items.
	parser *ItemParser

	// resolver looks up nutrition per item.
	resolver nutrition.Resolver

	// logger is used for structured logging.
	logger *slog.Logger
}

// NewPipeline creates a Pipeline from its three stages. A nil logger
// falls back to slog.Default().
func NewPipeline(extractor Extractor, resolver nutrition.Resolver, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: extractor,
		parser:    NewItemParser(),
		resolver:  resolver,
		logger:    logger,
	}
}

// Process runs the full pipeline for one receipt image and returns the
// enriched items. A failed extraction or an empty parse short-circuits
// to an empty result: receipt photos are user-submitted and a failed
// scan is a normal outcome, not a fault. Each parsed item is resolved
// independently; items whose nutrition cannot be resolved are dropped
// and every other item proceeds. The returned slice is never nil.
func (p *Pipeline) Process(ctx context.Context, imagePath string) []model.EnrichedItem {
	enriched := make([]model.EnrichedItem, 0)

	text, err := p.extractor.Extract(ctx, imagePath)
	if err != nil {
		if errors.Is(err, ocr.ErrNotExtracted) {
			p.logger.Info("receipt not extracted", "path", imagePath)
		} else {
			p.logger.Warn("extraction failed", "path", imagePath, "error", err)
		}
		return enriched
	}

	items := p.parser.Parse(text)
	if len(items) == 0 {
		p.logger.Info("no items recognized on receipt", "path", imagePath)
		return enriched
	}
	p.logger.Debug("receipt parsed", "path", imagePath, "items", len(items))

	for _, item := range items {
		n, err := p.resolver.Resolve(ctx, item.Name)
		if err != nil {
			// Dropped, never recorded as a zero-filled entry.
			p.logger.Info("item dropped, nutrition unresolved",
				"item", item.Name,
				"error", err,
			)
			continue
		}

		enriched = append(enriched, model.EnrichedItem{
			RawLineItem:         item,
			NutritionPerServing: n,
			Resolved:            true,
		})
	}

	p.logger.Info("receipt processed",
		"path", imagePath,
		"parsed", len(items),
		"enriched", len(enriched),
	)
	return enriched
}
