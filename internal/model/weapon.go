package model

import "fmt"

// WeaponEffects is the input contract supplied by the weapon-physics
// collaborator. Fireball is in meters; every other field is in kilometers
// and converted here before any zone math sees it.
type WeaponEffects struct {
	FireballM    float64           `json:"fireball"`
	Overpressure OverpressureRadii `json:"overpressure"`
	Thermal      ThermalRadii      `json:"thermal"`
	Radiation    RadiationRadii    `json:"radiation"`
}

// OverpressureRadii holds blast overpressure contour radii in km.
type OverpressureRadii struct {
	PSI20 float64 `json:"psi20"`
	PSI5  float64 `json:"psi5"`
	PSI2  float64 `json:"psi2"`
	PSI1  float64 `json:"psi1"`
}

// ThermalRadii holds thermal burn contour radii in km.
type ThermalRadii struct {
	ThirdDegree  float64 `json:"thirdDegree"`
	SecondDegree float64 `json:"secondDegree"`
	FirstDegree  float64 `json:"firstDegree"`
}

// RadiationRadii holds prompt radiation dose contour radii in km.
type RadiationRadii struct {
	Rem500 float64 `json:"rem500"`
	Rem100 float64 `json:"rem100"`
}

// ZoneSpec is the tunable part of a zone: rates and descriptive text ship
// as configuration data so they can be adjusted without touching the
// estimator.
type ZoneSpec struct {
	Category     ZoneCategory
	FatalityRate float64
	Injuries     InjuryDistribution
	Description  string
}

// ZoneTable maps zone names to their specs.
type ZoneTable map[string]ZoneSpec

// Canonical zone names used across the system.
const (
	ZoneFireball   = "fireball"
	ZonePSI20      = "psi20"
	ZonePSI5       = "psi5"
	ZonePSI2       = "psi2"
	ZonePSI1       = "psi1"
	ZoneThermal3rd = "thermal3rd"
	ZoneThermal2nd = "thermal2nd"
	ZoneThermal1st = "thermal1st"
	ZoneRem500     = "rem500"
	ZoneRem100     = "rem100"
)

// DefaultZoneTable returns the built-in fatality and injury tables.
// Configuration may override any entry.
func DefaultZoneTable() ZoneTable {
	return ZoneTable{
		ZoneFireball: {
			Category:     CategoryBlast,
			FatalityRate: 1.0,
			Injuries:     InjuryDistribution{},
			Description:  "Fireball: complete vaporization, no survivors",
		},
		ZonePSI20: {
			Category:     CategoryBlast,
			FatalityRate: 0.98,
			Injuries:     InjuryDistribution{Severe: 1.0},
			Description:  "20 psi overpressure: heavily built concrete structures demolished",
		},
		ZonePSI5: {
			Category:     CategoryBlast,
			FatalityRate: 0.50,
			Injuries:     InjuryDistribution{Severe: 0.45, Moderate: 0.40, Light: 0.15},
			Description:  "5 psi overpressure: most residential buildings collapse",
		},
		ZonePSI2: {
			Category:     CategoryBlast,
			FatalityRate: 0.05,
			Injuries:     InjuryDistribution{Severe: 0.15, Moderate: 0.35, Light: 0.45},
			Description:  "2 psi overpressure: residential structures damaged, injuries from debris",
		},
		ZonePSI1: {
			Category:     CategoryBlast,
			FatalityRate: 0.01,
			Injuries:     InjuryDistribution{Severe: 0.02, Moderate: 0.10, Light: 0.35},
			Description:  "1 psi overpressure: window breakage, light injuries from flying glass",
		},
		ZoneThermal3rd: {
			Category:     CategoryThermal,
			FatalityRate: 0.40,
			Injuries:     InjuryDistribution{Severe: 0.70, Moderate: 0.25, Light: 0.05},
			Description:  "Third-degree burns: full-thickness burns, often fatal without care",
		},
		ZoneThermal2nd: {
			Category:     CategoryThermal,
			FatalityRate: 0.05,
			Injuries:     InjuryDistribution{Severe: 0.30, Moderate: 0.50, Light: 0.20},
			Description:  "Second-degree burns: partial-thickness burns requiring treatment",
		},
		ZoneThermal1st: {
			Category:     CategoryThermal,
			FatalityRate: 0.0,
			Injuries:     InjuryDistribution{Moderate: 0.20, Light: 0.60},
			Description:  "First-degree burns: superficial burns comparable to sunburn",
		},
		ZoneRem500: {
			Category:     CategoryRadiation,
			FatalityRate: 0.90,
			Injuries:     InjuryDistribution{Severe: 0.90, Moderate: 0.10},
			Description:  "500 rem prompt radiation: acute radiation syndrome, fatal untreated",
		},
		ZoneRem100: {
			Category:     CategoryRadiation,
			FatalityRate: 0.05,
			Injuries:     InjuryDistribution{Severe: 0.20, Moderate: 0.50, Light: 0.30},
			Description:  "100 rem prompt radiation: radiation sickness, long-term cancer risk",
		},
	}
}

// Zones converts weapon effect radii to validated effect zones using the
// given table. Zones with a zero radius are still emitted; the estimator
// skips degenerate rings itself so the caller does not have to pre-filter.
func (w WeaponEffects) Zones(table ZoneTable) ([]EffectZone, error) {
	radii := []struct {
		name    string
		radiusM float64
	}{
		{ZoneFireball, w.FireballM},
		{ZonePSI20, w.Overpressure.PSI20 * 1000},
		{ZonePSI5, w.Overpressure.PSI5 * 1000},
		{ZonePSI2, w.Overpressure.PSI2 * 1000},
		{ZonePSI1, w.Overpressure.PSI1 * 1000},
		{ZoneThermal3rd, w.Thermal.ThirdDegree * 1000},
		{ZoneThermal2nd, w.Thermal.SecondDegree * 1000},
		{ZoneThermal1st, w.Thermal.FirstDegree * 1000},
		{ZoneRem500, w.Radiation.Rem500 * 1000},
		{ZoneRem100, w.Radiation.Rem100 * 1000},
	}

	zones := make([]EffectZone, 0, len(radii))
	for _, r := range radii {
		spec, ok := table[r.name]
		if !ok {
			return nil, fmt.Errorf("no zone table entry for %q", r.name)
		}
		z, err := NewEffectZone(r.name, spec.Category, r.radiusM, spec.FatalityRate, spec.Injuries, spec.Description)
		if err != nil {
			return nil, fmt.Errorf("building zone %q: %w", r.name, err)
		}
		zones = append(zones, z)
	}
	return zones, nil
}
