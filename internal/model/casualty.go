package model

// InjuryCounts holds per-severity injury counts among a ring's survivors.
// The severities overlap by design (see InjuryDistribution).
type InjuryCounts struct {
	Severe   int64 `json:"severe"`
	Moderate int64 `json:"moderate"`
	Light    int64 `json:"light"`
}

// Total sums all severities.
func (c InjuryCounts) Total() int64 {
	return c.Severe + c.Moderate + c.Light
}

// CasualtyEstimate is the per-zone output: one annular ring of effect.
type CasualtyEstimate struct {
	ZoneName           string       `json:"zone"`
	Category           ZoneCategory `json:"category"`
	RadiusM            float64      `json:"radiusM"`
	AreaKm2            float64      `json:"areaKm2"`
	PopulationAffected int64        `json:"populationAffected"`
	Fatalities         int64        `json:"fatalities"`
	Injuries           InjuryCounts `json:"injuries"`
	Description        string       `json:"description"`
}

// Totals aggregates across all emitted estimates.
type Totals struct {
	PopulationAffected int64 `json:"populationAffected"`
	Fatalities         int64 `json:"fatalities"`
	Injuries           int64 `json:"injuries"`
}

// MedicalBurden categorizes injuries by treatment type. Blast zones feed
// SevereTrauma, thermal zones feed Burns, radiation zones feed
// RadiationSickness. CombinedInjuries models comorbid overlap as 10% of
// all injuries.
type MedicalBurden struct {
	SevereTrauma      int64 `json:"severeTrauma"`
	Burns             int64 `json:"burns"`
	RadiationSickness int64 `json:"radiationSickness"`
	CombinedInjuries  int64 `json:"combinedInjuries"`
}

// CasualtyData is the aggregate output of one casualty computation.
type CasualtyData struct {
	Estimates     []CasualtyEstimate `json:"estimates"`
	Totals        Totals             `json:"totals"`
	MedicalBurden MedicalBurden      `json:"medicalBurden"`
	UsingRealData bool               `json:"usingRealData"`
}
