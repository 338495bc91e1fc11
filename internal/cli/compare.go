package cli

import (
	"strconv"

	"resumeforge/internal/common"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/scoring"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [original-score] [enhanced-score]",
	Short: "Compare two ATS scores",
	Long: `Report the difference and percentage change between an original and an
enhanced ATS score, together with the improvement tier messages.`,
	Args:    cobra.ExactArgs(2),
	PreRunE: resolveOutputFormat(&compareConfig),
	RunE:    runCompare,
}

var compareConfig common.CommandConfig

func init() {
	addOutputFlags(compareCmd, &compareConfig)
}

func runCompare(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	scores := make([]float64, len(args))
	for i, arg := range args {
		score, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
				"scores must be numbers, got "+strconv.Quote(arg), err)
		}
		scores[i] = score
	}

	return common.NewOutputHandler(env.logger).HandleOutput(scoring.Compare(scores[0], scores[1]), compareConfig)
}
