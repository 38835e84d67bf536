package resolver

import (
	"context"
	"time"

	"github.com/vinfox/go_vin/internal/logger"
	"github.com/vinfox/go_vin/internal/models"
	"github.com/vinfox/go_vin/internal/services"
)

// DecodeClient maps a validated VIN to a vehicle-attributes record
type DecodeClient interface {
	Decode(ctx context.Context, vin models.VinCode) (*models.VehicleAttributes, error)
}

// RecallClient looks up recall campaigns by VIN or by year/make/model
type RecallClient interface {
	ByVin(ctx context.Context, vin models.VinCode) ([]models.RecallRecord, error)
	ByYearMakeModel(ctx context.Context, vehicleMake, vehicleModel, modelYear string) ([]models.RecallRecord, error)
}

// Resolver composes the validator, decode client, and recall client into a
// single-VIN resolution. Each call is independent; the Resolver holds no
// mutable state.
type Resolver struct {
	validator *services.Validator
	decoder   DecodeClient
	recalls   RecallClient
}

// NewResolver creates a new Resolver
func NewResolver(validator *services.Validator, decoder DecodeClient, recalls RecallClient) *Resolver {
	return &Resolver{
		validator: validator,
		decoder:   decoder,
		recalls:   recalls,
	}
}

type decodeResult struct {
	attrs *models.VehicleAttributes
	err   error
}

type recallResult struct {
	records []models.RecallRecord
	err     error
}

// Resolve resolves one raw VIN token into a ResolutionOutcome.
//
// Decode and the by-VIN recall lookup are independent upstream calls and are
// issued concurrently; only the year/make/model fallback needs decode output,
// so it is ordered strictly after decode completes. A recall failure degrades
// the outcome to OutcomePartial, never to OutcomeFailed: vehicle specs are
// still useful when the recall state is unknown.
func (r *Resolver) Resolve(ctx context.Context, raw string) models.ResolutionOutcome {
	startTime := time.Now()

	vin, err := r.validator.Validate(raw)
	if err != nil {
		return models.ResolutionOutcome{
			VIN:    models.VinCode(r.validator.Normalize(raw)),
			Status: models.OutcomeFailed,
			Err:    err,
		}
	}

	ctx = context.WithValue(ctx, logger.VINKey, vin.String())
	logger.Debug(ctx, "Resolving VIN")

	decodeCh := make(chan decodeResult, 1)
	recallCh := make(chan recallResult, 1)

	go func() {
		attrs, err := r.decoder.Decode(ctx, vin)
		decodeCh <- decodeResult{attrs: attrs, err: err}
	}()
	go func() {
		records, err := r.recalls.ByVin(ctx, vin)
		recallCh <- recallResult{records: records, err: err}
	}()

	decoded := <-decodeCh
	byVin := <-recallCh

	if decoded.err != nil {
		logger.LogError(ctx, "Decode failed", decoded.err)
		return models.ResolutionOutcome{
			VIN:    vin,
			Status: models.OutcomeFailed,
			Err:    decoded.err,
		}
	}

	if byVin.err == nil {
		logger.Debug(ctx, "Resolved VIN", "recalls", len(byVin.records))
		logger.LogSlowOperation(ctx, "resolve", time.Since(startTime))
		return models.ResolutionOutcome{
			VIN:        vin,
			Status:     models.OutcomeSuccess,
			Attributes: decoded.attrs,
			Recalls:    byVin.records,
		}
	}

	// By-VIN lookup failed; fall back to the coarser year/make/model query
	// using the decoded attributes. The fallback runs at most once and only
	// when the decoded record actually carries all three keys.
	records, recallErr := r.fallbackRecalls(ctx, decoded.attrs, byVin.err)
	if recallErr != nil {
		logger.LogError(ctx, "Recall state unknown", recallErr)
		logger.LogSlowOperation(ctx, "resolve", time.Since(startTime))
		return models.ResolutionOutcome{
			VIN:        vin,
			Status:     models.OutcomePartial,
			Attributes: decoded.attrs,
			RecallErr:  recallErr,
		}
	}

	logger.Info(ctx, "Recall lookup recovered via year/make/model fallback",
		"recalls", len(records))
	logger.LogSlowOperation(ctx, "resolve", time.Since(startTime))
	return models.ResolutionOutcome{
		VIN:        vin,
		Status:     models.OutcomeSuccess,
		Attributes: decoded.attrs,
		Recalls:    records,
	}
}

// fallbackRecalls attempts the year/make/model strategy after a by-VIN
// failure. On failure it returns a *models.RecallUnavailableError describing
// why the recall state stays unknown; the fallback is skipped entirely when
// the decoded record is missing any of the three query keys.
func (r *Resolver) fallbackRecalls(ctx context.Context, attrs *models.VehicleAttributes, byVinErr error) ([]models.RecallRecord, error) {
	vinLookup, _ := byVinErr.(*models.LookupError)

	if !attrs.HasYearMakeModel() {
		return nil, &models.RecallUnavailableError{ByVin: vinLookup}
	}

	records, err := r.recalls.ByYearMakeModel(ctx, attrs.Make, attrs.Model, attrs.ModelYear)
	if err != nil {
		ymmLookup, _ := err.(*models.LookupError)
		return nil, &models.RecallUnavailableError{
			ByVin:           vinLookup,
			ByYearMakeModel: ymmLookup,
		}
	}

	return records, nil
}
