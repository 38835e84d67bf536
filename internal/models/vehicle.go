package models

// UnknownValue is the sentinel used for vehicle attributes the decode
// upstream omits or does not recognize for a given vehicle type.
const UnknownValue = "unknown"

// VinCode is a validated 17-character Vehicle Identification Number.
// It is only ever produced by the validator; once constructed it is
// trimmed, upper-cased, and restricted to [A-HJ-NPR-Z0-9].
type VinCode string

// String returns the VIN as a plain string.
func (v VinCode) String() string {
	return string(v)
}

// VehicleAttributes is the flat vehicle record produced by decoding a VIN.
// Every field is a string; fields the upstream did not report carry
// UnknownValue.
type VehicleAttributes struct {
	Make               string `json:"make"`
	Model              string `json:"model"`
	ModelYear          string `json:"model_year"`
	BodyClass          string `json:"body_class"`
	EngineCylinders    string `json:"engine_cylinders"`
	DisplacementLiters string `json:"displacement_liters"`
	FuelTypePrimary    string `json:"fuel_type_primary"`
	PlantCountry       string `json:"plant_country"`
}

// HasYearMakeModel reports whether the attributes carry enough information
// for a year/make/model recall query. A fallback query built from unknown
// sentinels would never match anything upstream.
func (a *VehicleAttributes) HasYearMakeModel() bool {
	return a.Make != UnknownValue && a.Model != UnknownValue && a.ModelYear != UnknownValue
}

// RecallRecord is one safety-recall campaign as reported by the recall
// upstream. CampaignNumber is not guaranteed globally unique, so ordinal
// position within a response may also serve as a key.
type RecallRecord struct {
	CampaignNumber           string `json:"NHTSACampaignNumber"`
	ReportReceivedDate       string `json:"ReportReceivedDate"`
	Component                string `json:"Component"`
	Summary                  string `json:"Summary"`
	Consequence              string `json:"Consequence,omitempty"`
	ManufacturerRecallNumber string `json:"ManufacturerRecallNo,omitempty"`
	Initiator                string `json:"RecallInitiator,omitempty"`
}
