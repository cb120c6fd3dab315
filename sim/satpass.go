package sim

import (
	"fmt"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/signalsfoundry/linkadapt-simulator/model"
)

// SatPassConfig describes a LEO pass over a fixed ground terminal, used to
// synthesize a deterministic per-tick SINR trace for the AMC loop.
type SatPassConfig struct {
	// TLE1 and TLE2 are the two-line element set of the satellite.
	TLE1 string
	TLE2 string
	// GroundX/Y/Z is the terminal's ECEF position in kilometres.
	GroundX, GroundY, GroundZ float64

	Start time.Time
	Tick  time.Duration
	Ticks int

	// NumRb is the width of each generated SINR sample.
	NumRb int
	// MinElevationDeg gates visibility; below it the sample is all-zero
	// (no allocation).
	MinElevationDeg float64

	// Link budget. Zero values fall back to conservative defaults, the
	// same convention the transceiver models use elsewhere.
	FrequencyGHz  float64
	TxPowerDbw    float64
	GainTxDbi     float64
	GainRxDbi     float64
	NoiseFigureDb float64

	// RippleDb adds a deterministic per-RB frequency-selective ripple on
	// top of the flat budget so the EESM compression has work to do.
	RippleDb float64
}

// GenerateSinrTrace propagates the satellite across the run window with SGP4
// and converts the free-space link budget at each tick into a per-RB linear
// SINR sample. Ticks where the satellite sits below the minimum elevation
// produce all-zero samples.
func GenerateSinrTrace(cfg SatPassConfig) ([]model.ChannelQualitySample, error) {
	if cfg.TLE1 == "" || cfg.TLE2 == "" {
		return nil, fmt.Errorf("sim: satellite pass requires both TLE lines")
	}
	if cfg.Ticks <= 0 || cfg.Tick <= 0 {
		return nil, fmt.Errorf("sim: satellite pass requires positive tick count and interval")
	}
	if cfg.NumRb <= 0 {
		return nil, fmt.Errorf("sim: satellite pass requires a positive resource block count")
	}

	sat := satellite.TLEToSat(cfg.TLE1, cfg.TLE2, satellite.GravityWGS72)
	ground := vec3{X: cfg.GroundX, Y: cfg.GroundY, Z: cfg.GroundZ}

	trace := make([]model.ChannelQualitySample, 0, cfg.Ticks)
	for tick := 0; tick < cfg.Ticks; tick++ {
		simTime := cfg.Start.Add(time.Duration(tick) * cfg.Tick)
		pos := propagateECEF(sat, simTime)

		sample := make(model.ChannelQualitySample, cfg.NumRb)
		if elevationDegrees(ground, pos) >= cfg.MinElevationDeg {
			snrDb := linkBudgetSnrDb(cfg, ground.distanceTo(pos))
			for rb := range sample {
				rippleDb := cfg.RippleDb * math.Sin(2*math.Pi*float64(rb)/float64(cfg.NumRb)+0.1*float64(tick))
				sample[rb] = math.Pow(10, (snrDb+rippleDb)/10)
			}
		}
		trace = append(trace, sample)
	}
	return trace, nil
}

// propagateECEF runs SGP4 for the given time and rotates the ECI position
// into ECEF kilometres.
func propagateECEF(sat satellite.Satellite, simTime time.Time) vec3 {
	year, month, day := simTime.Date()
	hour, min, sec := simTime.Clock()

	posECI, _ := satellite.Propagate(sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	posECEF := satellite.ECIToECEF(posECI, gmst)

	return vec3{X: posECEF.X, Y: posECEF.Y, Z: posECEF.Z}
}

// linkBudgetSnrDb computes a simple free-space SNR estimate. The constants
// are conservative and exist to give a monotonic distance/quality
// relationship, not an engineering-grade budget.
func linkBudgetSnrDb(cfg SatPassConfig, distanceKm float64) float64 {
	if distanceKm < 1 {
		distanceKm = 1
	}
	fGHz := cfg.FrequencyGHz
	if fGHz <= 0 {
		fGHz = 10
	}

	// Free-space path loss in dB: 92.45 + 20 log10(d_km) + 20 log10(f_GHz)
	fspl := 92.45 + 20*math.Log10(distanceKm) + 20*math.Log10(fGHz)

	pt := cfg.TxPowerDbw
	if pt == 0 {
		pt = 40
	}
	gt := cfg.GainTxDbi
	if gt == 0 {
		gt = 30
	}
	gr := cfg.GainRxDbi
	if gr == 0 {
		gr = 30
	}

	pr := pt + gt + gr - fspl
	noiseFloor := -120.0 + cfg.NoiseFigureDb
	return pr - noiseFloor
}
