package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/blastmap/engine/internal/engine"
	"github.com/blastmap/engine/internal/format"
	"github.com/blastmap/engine/internal/model"
	"github.com/blastmap/engine/internal/plume"
)

// demoWeapon approximates the effect radii of a 350 kt airburst.
func demoWeapon() model.WeaponEffects {
	return model.WeaponEffects{
		FireballM:    640,
		Overpressure: model.OverpressureRadii{PSI20: 1.1, PSI5: 2.9, PSI2: 5.4, PSI1: 7.9},
		Thermal:      model.ThermalRadii{ThirdDegree: 6.4, SecondDegree: 7.6, FirstDegree: 10.2},
		Radiation:    model.RadiationRadii{Rem500: 2.2, Rem100: 2.8},
	}
}

// runDemo computes one canned scenario over Manhattan and prints a readable
// report.
func runDemo(e *engine.Engine, logger *slog.Logger) {
	e.SetWeapon(demoWeapon())
	e.SetTarget(40.7549, -73.9840, "Manhattan, New York")

	res, err := e.Compute(context.Background())
	if err != nil {
		logger.Error("Demo computation failed", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Scenario: 350 kt airburst, Manhattan")
	if res.Data.UsingRealData {
		fmt.Println("Population source: building data")
	} else {
		fmt.Println("Population source: density heuristic")
	}
	fmt.Println()
	fmt.Printf("%-12s %-10s %12s %12s %12s\n", "ZONE", "CATEGORY", "AFFECTED", "FATALITIES", "INJURED")
	for _, est := range res.Data.Estimates {
		fmt.Printf("%-12s %-10s %12s %12s %12s\n",
			est.ZoneName,
			est.Category,
			format.Count(est.PopulationAffected),
			format.Count(est.Fatalities),
			format.Count(est.Injuries.Total()),
		)
	}

	t := res.Data.Totals
	fmt.Println()
	fmt.Printf("Total affected:   %s\n", format.Count(t.PopulationAffected))
	fmt.Printf("Total fatalities: %s\n", format.Count(t.Fatalities))
	fmt.Printf("Total injured:    %s\n", format.Count(t.Injuries))

	b := res.Data.MedicalBurden
	fmt.Println()
	fmt.Printf("Severe trauma:      %s\n", format.Count(b.SevereTrauma))
	fmt.Printf("Burns:              %s\n", format.Count(b.Burns))
	fmt.Printf("Radiation sickness: %s\n", format.Count(b.RadiationSickness))
	fmt.Printf("Combined injuries:  %s\n", format.Count(b.CombinedInjuries))

	wkt, err := plume.WKT(plume.Params{
		Center:         model.LatLng{Lat: 40.7549, Lng: -73.9840},
		WindBearingDeg: 75,
		LengthKm:       45,
		MaxWidthKm:     12,
	})
	if err != nil {
		logger.Error("Plume generation failed", "error", err)
		return
	}
	fmt.Println()
	fmt.Printf("Fallout plume (wind 075): %.60s...\n", wkt)
	fmt.Printf("\nComputed in %dms\n", res.Duration.Milliseconds())
}
