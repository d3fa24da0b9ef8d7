package body

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	pe "github.com/soniakeys/meeus/v3/planetelements"
)

// planetIndex maps catalog names to meeus planet constants.
var planetIndex = map[string]int{
	"Mercury": pe.Mercury,
	"Venus":   pe.Venus,
	"Earth":   pe.Earth,
	"Mars":    pe.Mars,
	"Jupiter": pe.Jupiter,
	"Saturn":  pe.Saturn,
	"Uranus":  pe.Uranus,
	"Neptune": pe.Neptune,
}

// SeedAngles returns the initial orbit-pivot angle for each descriptor,
// keyed by name: the planet's heliocentric mean longitude at epoch t.
// This only places bodies; it does not change how they move afterwards.
// Bodies without a known ephemeris (the comet, the Sun) start at zero.
func SeedAngles(descs []Descriptor, epoch time.Time) map[string]float64 {
	jde := julian.TimeToJD(epoch.UTC())
	angles := make(map[string]float64, len(descs))
	var e pe.Elements
	for _, d := range descs {
		p, ok := planetIndex[d.Name]
		if !ok || d.Central || d.Parametric {
			angles[d.Name] = 0
			continue
		}
		pe.Mean(p, jde, &e)
		angles[d.Name] = normalizeAngle(e.Lon.Rad())
	}
	return angles
}

// normalizeAngle wraps an angle into [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
