package resolver

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vinfox/go_vin/internal/logger"
	"github.com/vinfox/go_vin/internal/models"
	"github.com/vinfox/go_vin/internal/services"
)

const (
	// DefaultMaxTokens caps how many tokens of one bulk submission are
	// considered; excess tokens never generate a network call
	DefaultMaxTokens = 50
	// DefaultConcurrency bounds how many decode requests are in flight at
	// once during a bulk submission
	DefaultConcurrency = 8
)

// BatchResolver resolves many VINs from one raw token stream. Bulk mode is
// decode-only: recall lookups are skipped for throughput. Per-item failures
// are isolated into typed per-item results; one failing VIN never aborts the
// batch.
type BatchResolver struct {
	validator   *services.Validator
	decoder     DecodeClient
	maxTokens   int
	concurrency int
}

// NewBatchResolver creates a new BatchResolver. Non-positive maxTokens or
// concurrency fall back to the defaults.
func NewBatchResolver(validator *services.Validator, decoder DecodeClient, maxTokens, concurrency int) *BatchResolver {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	return &BatchResolver{
		validator:   validator,
		decoder:     decoder,
		maxTokens:   maxTokens,
		concurrency: concurrency,
	}
}

// ResolveBatch tokenizes rawText, enforces the token cap, partitions tokens
// into valid and invalid VINs, and decodes the valid ones concurrently with
// a bounded worker limit. Both resource bounds (token cap, concurrency) are
// enforced before any network request is issued. Items preserve the input
// order of the valid tokens even though decodes complete out of order.
func (b *BatchResolver) ResolveBatch(ctx context.Context, rawText string) *models.BatchResult {
	startTime := time.Now()

	tokens := services.TokenizeVINs(rawText)
	tokensSeen := len(tokens)

	capped := false
	if len(tokens) > b.maxTokens {
		tokens = tokens[:b.maxTokens]
		capped = true
		logger.Warn(ctx, "Bulk submission exceeds token cap",
			"tokens_seen", tokensSeen, "cap", b.maxTokens)
	}

	var valid []models.VinCode
	var invalid []string
	for _, token := range tokens {
		vin, err := b.validator.Validate(token)
		if err != nil {
			invalid = append(invalid, token)
			continue
		}
		valid = append(valid, vin)
	}

	items := make([]models.BatchItem, len(valid))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, vin := range valid {
		g.Go(func() error {
			attrs, err := b.decoder.Decode(ctx, vin)
			if err != nil {
				// Isolate the failure in this item's slot
				items[i] = models.BatchItem{VIN: vin, Err: err}
				return nil
			}
			items[i] = models.BatchItem{VIN: vin, Attributes: attrs}
			return nil
		})
	}
	// Workers never return errors, so Wait only synchronizes completion
	_ = g.Wait()

	logger.Info(ctx, "Bulk resolution complete",
		"valid", len(valid), "invalid", len(invalid), "capped", capped)
	logger.LogSlowOperation(ctx, "resolve_batch", time.Since(startTime))

	return &models.BatchResult{
		Items:      items,
		Invalid:    models.NewInvalidTokenError(invalid),
		TokensSeen: tokensSeen,
		Capped:     capped,
	}
}
