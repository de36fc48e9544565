package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/blastmap/engine/internal/dispatcher"
	"github.com/blastmap/engine/internal/engine"
	"github.com/blastmap/engine/internal/format"
	"github.com/blastmap/engine/internal/model"
	"github.com/blastmap/engine/internal/plume"
	"github.com/blastmap/engine/internal/storage"
)

// computeTimeout bounds a synchronous :COMPUTE: including its geodata fetch.
const computeTimeout = 30 * time.Second

// summary is the wire shape of one computation result.
type summary struct {
	Estimates          []model.CasualtyEstimate `json:"estimates"`
	Totals             model.Totals             `json:"totals"`
	MedicalBurden      model.MedicalBurden      `json:"medicalBurden"`
	UsingRealData      bool                     `json:"usingRealData"`
	FatalitiesDisplay  string                   `json:"fatalitiesDisplay"`
	InjuriesDisplay    string                   `json:"injuriesDisplay"`
	DurationMs         int64                    `json:"durationMs"`
	PopulationAffected string                   `json:"populationAffectedDisplay"`
}

func computeSummary(res engine.Result) summary {
	return summary{
		Estimates:          res.Data.Estimates,
		Totals:             res.Data.Totals,
		MedicalBurden:      res.Data.MedicalBurden,
		UsingRealData:      res.Data.UsingRealData,
		FatalitiesDisplay:  format.Count(res.Data.Totals.Fatalities),
		InjuriesDisplay:    format.Count(res.Data.Totals.Injuries),
		PopulationAffected: format.Count(res.Data.Totals.PopulationAffected),
		DurationMs:         res.Duration.Milliseconds(),
	}
}

func registerCommands(d *dispatcher.Dispatcher, e *engine.Engine, store storage.Backend) {
	d.Register(":VERSION:", func(ev dispatcher.Event) (any, error) {
		return Version, nil
	})

	// :TARGET:SET:|lat|lng[|city] moves the blast marker. The computation
	// itself is debounced and arrives as an async "compute" event.
	d.Register(":TARGET:SET:", func(ev dispatcher.Event) (any, error) {
		if len(ev.Args) < 2 {
			return nil, fmt.Errorf("usage: :TARGET:SET:|lat|lng[|city]")
		}
		lat, err := strconv.ParseFloat(ev.Args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bad latitude %q: %w", ev.Args[0], err)
		}
		lng, err := strconv.ParseFloat(ev.Args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad longitude %q: %w", ev.Args[1], err)
		}
		city := ""
		if len(ev.Args) > 2 {
			city = ev.Args[2]
		}
		e.SetTarget(lat, lng, city)
		return "scheduled", nil
	}, dispatcher.Logged())

	// :WEAPON:SET:|{json} replaces the weapon effect radii.
	d.Register(":WEAPON:SET:", func(ev dispatcher.Event) (any, error) {
		if len(ev.Args) < 1 {
			return nil, fmt.Errorf("usage: :WEAPON:SET:|{json}")
		}
		var w model.WeaponEffects
		if err := json.Unmarshal([]byte(ev.Args[0]), &w); err != nil {
			return nil, fmt.Errorf("bad weapon payload: %w", err)
		}
		e.SetWeapon(w)
		return "scheduled", nil
	}, dispatcher.Logged())

	// :COMPUTE: forces a synchronous computation of the current state.
	d.Register(":COMPUTE:", func(ev dispatcher.Event) (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), computeTimeout)
		defer cancel()

		res, err := e.Compute(ctx)
		if err != nil {
			return nil, err
		}
		return computeSummary(res), nil
	}, dispatcher.Logged())

	// :STATUS: reports whether a computation is in flight.
	d.Register(":STATUS:", func(ev dispatcher.Event) (any, error) {
		return map[string]bool{"computing": e.IsComputing()}, nil
	})

	// :PLUME:|lat|lng|bearingDeg|lengthKm|widthKm returns a fallout plume
	// outline as WKT for the map layer.
	d.Register(":PLUME:", func(ev dispatcher.Event) (any, error) {
		if len(ev.Args) < 5 {
			return nil, fmt.Errorf("usage: :PLUME:|lat|lng|bearingDeg|lengthKm|widthKm")
		}
		vals := make([]float64, 5)
		for i := 0; i < 5; i++ {
			v, err := strconv.ParseFloat(ev.Args[i], 64)
			if err != nil {
				return nil, fmt.Errorf("bad plume argument %q: %w", ev.Args[i], err)
			}
			vals[i] = v
		}
		return plume.WKT(plume.Params{
			Center:         model.LatLng{Lat: vals[0], Lng: vals[1]},
			WindBearingDeg: vals[2],
			LengthKm:       vals[3],
			MaxWidthKm:     vals[4],
		})
	}, dispatcher.Logged())

	// :SNAPSHOT:EXPORT: writes the session's scenario history to disk.
	d.Register(":SNAPSHOT:EXPORT:", func(ev dispatcher.Event) (any, error) {
		path, err := store.Export()
		if err != nil {
			return nil, err
		}
		return map[string]string{"path": path}, nil
	}, dispatcher.Logged())
}
