package model

import "errors"

// Validation errors returned at zone construction. Invalid zones are
// rejected before they can enter the estimation pipeline.
var (
	ErrNegativeRadius   = errors.New("zone radius must be non-negative")
	ErrRateOutOfRange   = errors.New("fatality rate must be within [0,1]")
	ErrInjuryOutOfRange = errors.New("injury fractions must each be within [0,1]")
	ErrUnknownCategory  = errors.New("unknown zone category")
	ErrEmptyZoneName    = errors.New("zone name must not be empty")
)

// ZoneCategory classifies an effect zone by the mechanism that dominates
// its casualties. The medical burden aggregation dispatches on this enum.
type ZoneCategory int

const (
	CategoryBlast ZoneCategory = iota
	CategoryThermal
	CategoryRadiation
)

// String returns the category name.
func (c ZoneCategory) String() string {
	switch c {
	case CategoryBlast:
		return "blast"
	case CategoryThermal:
		return "thermal"
	case CategoryRadiation:
		return "radiation"
	default:
		return "unknown"
	}
}

func (c ZoneCategory) valid() bool {
	return c >= CategoryBlast && c <= CategoryRadiation
}

// InjuryDistribution describes the severity mix among a zone's survivors.
// The three fractions are applied independently to the same survivor pool
// and are NOT required to sum to 1: they model overlapping conditions
// (a survivor can suffer burns and trauma concurrently). This matches the
// behavior of the reference implementation and is intentionally preserved.
type InjuryDistribution struct {
	Severe   float64 `json:"severe"`
	Moderate float64 `json:"moderate"`
	Light    float64 `json:"light"`
}

// Validate checks that every fraction lies within [0,1].
func (d InjuryDistribution) Validate() error {
	for _, f := range []float64{d.Severe, d.Moderate, d.Light} {
		if f < 0 || f > 1 {
			return ErrInjuryOutOfRange
		}
	}
	return nil
}

// EffectZone is one weapon effect ring: everything between this radius and
// the next-inner zone's radius shares the same fatality rate and injury mix.
type EffectZone struct {
	Name         string             `json:"name"`
	Category     ZoneCategory       `json:"category"`
	RadiusM      float64            `json:"radiusM"`
	FatalityRate float64            `json:"fatalityRate"`
	Injuries     InjuryDistribution `json:"injuries"`
	Description  string             `json:"description"`
}

// NewEffectZone builds a validated effect zone. All validation happens
// here; the estimator never clamps values mid-computation.
func NewEffectZone(
	name string,
	category ZoneCategory,
	radiusM float64,
	fatalityRate float64,
	injuries InjuryDistribution,
	description string,
) (EffectZone, error) {
	if name == "" {
		return EffectZone{}, ErrEmptyZoneName
	}
	if !category.valid() {
		return EffectZone{}, ErrUnknownCategory
	}
	if radiusM < 0 {
		return EffectZone{}, ErrNegativeRadius
	}
	if fatalityRate < 0 || fatalityRate > 1 {
		return EffectZone{}, ErrRateOutOfRange
	}
	if err := injuries.Validate(); err != nil {
		return EffectZone{}, err
	}
	return EffectZone{
		Name:         name,
		Category:     category,
		RadiusM:      radiusM,
		FatalityRate: fatalityRate,
		Injuries:     injuries,
		Description:  description,
	}, nil
}

// Validate re-checks a zone that may have been constructed directly
// (e.g. unmarshalled from JSON).
func (z EffectZone) Validate() error {
	_, err := NewEffectZone(z.Name, z.Category, z.RadiusM, z.FatalityRate, z.Injuries, z.Description)
	return err
}
