package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/ShrouqAbdelrazk-sys/zad-backend/pkg/db"
)

// choiceFallbackFactor is applied to max_score when a submitted choice label
// is absent from the criterion's choice-value table. Unknown choices score
// 80% rather than failing the submission.
const choiceFallbackFactor = 0.8

// Resolve produces a numeric score for one raw input against one criterion.
// The result is always within [0, criterion.MaxScore]:
//   - numeric: the parsed value clamped to [0, max]; unparseable or empty → 0
//   - boolean: true → max, false or unparseable → 0
//   - choice: looked up in the choice-value table, clamped; labels absent
//     from the table fall back to max * 0.8
//   - text: never scored, contributes 0 (the raw value is kept for reporting)
func Resolve(criterion *db.Criterion, rawValue string) float64 {
	raw := strings.TrimSpace(rawValue)

	switch criterion.DataType {
	case db.DataTypeNumeric:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0
		}
		return clamp(v, 0, criterion.MaxScore)

	case db.DataTypeBoolean:
		v, err := strconv.ParseBool(raw)
		if err != nil || !v {
			return 0
		}
		return criterion.MaxScore

	case db.DataTypeChoice:
		v, ok := criterion.ChoiceValues[raw]
		if !ok {
			return criterion.MaxScore * choiceFallbackFactor
		}
		return clamp(v, 0, criterion.MaxScore)

	default:
		// text and anything unrecognized are stored verbatim, never scored
		return 0
	}
}

// Round2 rounds to 2 decimal places, used for evaluation percentages
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
