package extractor

import (
	"math"
	"math/rand"
)

var monthLabels = []string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// GenerateSeries produces the 12-month QPM and PPM display series. the
// scorecard page only exposes a single actual value per metric, the chart
// wants a year of points, so the series is synthetic: bounded jitter around
// the actual, with the final month forced to the exact measured value.
//
// the generator is seeded with the integer QPM actual so regenerating from
// the same page yields the same sequence. consumers must treat the first
// eleven points as display filler, not historical data.
func GenerateSeries(qpmActual, ppmActual float64) (qpm, ppm MetricSeries) {
	seed := int64(qpmActual)
	if seed <= 0 {
		seed = 42
	}
	rng := rand.New(rand.NewSource(seed))

	qpmValues := make([]float64, 0, len(monthLabels))
	ppmValues := make([]float64, 0, len(monthLabels))
	for range monthLabels {
		q := qpmActual + (rng.Float64()*20 - 10)
		p := ppmActual + (rng.Float64()*10 - 5)
		qpmValues = append(qpmValues, round1(math.Max(0, q)))
		ppmValues = append(ppmValues, round1(math.Max(0, p)))
	}
	if qpmActual > 0 {
		qpmValues[len(qpmValues)-1] = qpmActual
	}
	if ppmActual > 0 {
		ppmValues[len(ppmValues)-1] = ppmActual
	}

	months := make([]string, len(monthLabels))
	copy(months, monthLabels)

	qpm = MetricSeries{Months: months, Values: qpmValues}
	ppm = MetricSeries{Months: append([]string(nil), months...), Values: ppmValues}
	return qpm, ppm
}
