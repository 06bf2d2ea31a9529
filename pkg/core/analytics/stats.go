package analytics

import "math"

// Trend directions reported by TrendDirection
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient data"
)

// minTrendPoints is the minimum number of data points needed for a trend
const minTrendPoints = 3

// trendDelta is the mean difference beyond which the trend is no longer stable
const trendDelta = 5.0

// Mean returns the arithmetic mean of scores, or 0 for an empty slice
func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}

// StdDev returns the population standard deviation of scores
func StdDev(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	mean := Mean(scores)
	sumSq := 0.0
	for _, s := range scores {
		d := s - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(scores)))
}

// Consistency scores how stable a volunteer's performance is: 100 for
// identical scores, dropping by one point per point of standard deviation,
// floored at 0.
func Consistency(scores []float64) float64 {
	c := 100 - StdDev(scores)
	if c < 0 {
		return 0
	}
	return c
}

// TrendDirection compares the first half of the series against the second
// (integer floor split, chronological order expected). A second-half mean
// more than 5 above the first is improving, more than 5 below is declining,
// anything else is stable. Fewer than 3 points is insufficient data.
func TrendDirection(scores []float64) string {
	if len(scores) < minTrendPoints {
		return TrendInsufficientData
	}

	half := len(scores) / 2
	firstMean := Mean(scores[:half])
	secondMean := Mean(scores[half:])

	diff := secondMean - firstMean
	switch {
	case diff > trendDelta:
		return TrendImproving
	case diff < -trendDelta:
		return TrendDeclining
	default:
		return TrendStable
	}
}
