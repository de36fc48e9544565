package casualty

import (
	"math"

	"github.com/blastmap/engine/internal/model"
)

// cascadeState carries the survivor cascade across rings of one computation.
type cascadeState struct {
	previousRadiusM      float64
	cumulativeFatalities int64
	cumulativePopulation int64
}

// applyCascade computes one ring's casualties and advances the state. Rings
// are disjoint annuli, so fatalities already counted inside this ring's
// inner boundary are capped by the population counted there; the overflow
// deduction below is therefore zero whenever ring populations are consistent
// with the geometry, and exists to keep the aggregate invariant
// (fatalities never exceed affected population) explicit.
func applyCascade(z model.EffectZone, ringPopulation int64, areaKm2 float64, st *cascadeState) model.CasualtyEstimate {
	overflow := st.cumulativeFatalities - st.cumulativePopulation
	if overflow < 0 {
		overflow = 0
	}
	surviving := ringPopulation - overflow
	if surviving < 0 {
		surviving = 0
	}

	fatalities := int64(math.Round(float64(surviving) * z.FatalityRate))
	survivors := surviving - fatalities

	// The severity fractions apply independently to the same survivor pool
	// and may overlap; they are not a partition.
	est := model.CasualtyEstimate{
		ZoneName:           z.Name,
		Category:           z.Category,
		RadiusM:            z.RadiusM,
		AreaKm2:            areaKm2,
		PopulationAffected: ringPopulation,
		Fatalities:         fatalities,
		Injuries: model.InjuryCounts{
			Severe:   int64(math.Round(float64(survivors) * z.Injuries.Severe)),
			Moderate: int64(math.Round(float64(survivors) * z.Injuries.Moderate)),
			Light:    int64(math.Round(float64(survivors) * z.Injuries.Light)),
		},
		Description: z.Description,
	}

	st.cumulativeFatalities += fatalities
	st.cumulativePopulation += ringPopulation
	st.previousRadiusM = z.RadiusM
	return est
}
