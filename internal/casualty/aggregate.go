package casualty

import (
	"math"

	"github.com/blastmap/engine/internal/model"
)

// combinedInjuryFraction models survivors with comorbid conditions spanning
// treatment categories.
const combinedInjuryFraction = 0.10

// sumTotals aggregates across all emitted ring estimates.
func sumTotals(estimates []model.CasualtyEstimate) model.Totals {
	var t model.Totals
	for _, est := range estimates {
		t.PopulationAffected += est.PopulationAffected
		t.Fatalities += est.Fatalities
		t.Injuries += est.Injuries.Total()
	}
	return t
}

// medicalBurden buckets injuries by treatment type using each zone's
// category. Combined injuries are a fixed fraction of all injuries.
func medicalBurden(estimates []model.CasualtyEstimate) model.MedicalBurden {
	var b model.MedicalBurden
	var total int64
	for _, est := range estimates {
		n := est.Injuries.Total()
		total += n
		switch est.Category {
		case model.CategoryBlast:
			b.SevereTrauma += n
		case model.CategoryThermal:
			b.Burns += n
		case model.CategoryRadiation:
			b.RadiationSickness += n
		}
	}
	b.CombinedInjuries = int64(math.Round(float64(total) * combinedInjuryFraction))
	return b
}
