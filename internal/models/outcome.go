package models

// OutcomeStatus is the tri-state result of resolving one VIN. Decode failure
// and recall failure are independent and are never collapsed into a single
// boolean: a consumer must be able to show vehicle specs even when the recall
// state is unknown.
type OutcomeStatus string

const (
	// OutcomeSuccess means decode and recall lookup both succeeded
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomePartial means decode succeeded but the recall state is unknown
	OutcomePartial OutcomeStatus = "partial"
	// OutcomeFailed means validation or decode failed for this VIN
	OutcomeFailed OutcomeStatus = "failed"
)

// ResolutionOutcome is one VIN's resolved state.
//
// Status OutcomeSuccess:  Attributes and Recalls are set; Recalls may be an
// empty (non-nil) slice, meaning "no open recalls found".
// Status OutcomePartial:  Attributes is set, Recalls is nil, RecallErr holds
// why the recall state is unknown.
// Status OutcomeFailed:   Err holds the validation or decode error.
type ResolutionOutcome struct {
	VIN        VinCode
	Status     OutcomeStatus
	Attributes *VehicleAttributes
	Recalls    []RecallRecord
	RecallErr  error
	Err        error
}

// RecallsKnown reports whether the recall list reflects a successful lookup.
// A nil list with RecallsKnown()==false means "unknown due to upstream
// failure", not "no recalls".
func (o *ResolutionOutcome) RecallsKnown() bool {
	return o.Status == OutcomeSuccess
}

// BatchItem is the typed per-item result of a bulk decode. Exactly one of
// Attributes and Err is set; a failed item never carries placeholder data
// that downstream code could mistake for a real vehicle.
type BatchItem struct {
	VIN        VinCode
	Attributes *VehicleAttributes
	Err        error
}

// BatchResult is the outcome of one bulk submission. Items preserves the
// input order of the valid tokens regardless of network completion order.
type BatchResult struct {
	Items []BatchItem
	// Invalid aggregates the tokens that failed validation, nil when all
	// tokens were valid
	Invalid *InvalidTokenError
	// TokensSeen is how many non-empty tokens the submission contained
	// before the cap was applied
	TokensSeen int
	// Capped is true when the submission exceeded the token cap and the
	// excess tokens were discarded without any network call
	Capped bool
}
