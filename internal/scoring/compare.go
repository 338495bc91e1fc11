// Package scoring compares ATS scores before and after enhancement.
package scoring

import "fmt"

// Improvement thresholds, in score points.
const (
	excellentThreshold = 30
	greatThreshold     = 15
	goodThreshold      = 5
)

// Comparison is the numeric side of a score comparison.
type Comparison struct {
	Original              float64  `json:"original"`
	Enhanced              float64  `json:"enhanced"`
	Difference            float64  `json:"difference"`
	PercentageImprovement float64  `json:"percentage_improvement"`
	Messages              []string `json:"messages"`
}

// CompareScores describes how the enhanced score moved relative to the original.
// A drop reports the score as maintained without stating the delta.
func CompareScores(original, enhanced float64) []string {
	return Compare(original, enhanced).Messages
}

// Compare computes the delta, percentage change and the tier messages.
func Compare(original, enhanced float64) Comparison {
	diff := enhanced - original
	pct := 0.0
	if original > 0 {
		pct = diff / original * 100
	}

	var messages []string
	switch {
	case diff > excellentThreshold:
		messages = []string{
			fmt.Sprintf("🌟 Excellent improvement! Score increased by %.1f points (%.1f%%)", diff, pct),
			"Your resume is now highly optimized for ATS systems",
		}
	case diff > greatThreshold:
		messages = []string{
			fmt.Sprintf("✅ Great improvement! Score increased by %.1f points", diff),
			"Resume is much more ATS-compatible now",
		}
	case diff > goodThreshold:
		messages = []string{
			fmt.Sprintf("👍 Good improvement! Score increased by %.1f points", diff),
			"Resume quality has been enhanced",
		}
	case diff >= 0:
		messages = []string{fmt.Sprintf("Score adjusted by %.1f points", diff)}
	default:
		messages = []string{"Score maintained from original version"}
	}

	return Comparison{
		Original:              original,
		Enhanced:              enhanced,
		Difference:            diff,
		PercentageImprovement: pct,
		Messages:              messages,
	}
}
