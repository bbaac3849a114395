package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/tradejournal/mentor"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var mentorCmd = &cobra.Command{
	Use:   "mentor",
	Short: "Ask the AI mentor about your recent trades",
	Long: fmt.Sprintf(`Send the %d most recently logged trades and the current balance to the
language model and print its feedback. At least %d trades are required.

The API key is read from API_KEY or GEMINI_API_KEY (a .env file works too)
or from mentor.api_key in the config file.`, mentor.SampleSize, mentor.MinTrades),
	Args: cobra.NoArgs,
	RunE: runMentor,
}

var mentorTimeout time.Duration

func init() {
	rootCmd.AddCommand(mentorCmd)
	mentorCmd.Flags().DurationVar(&mentorTimeout, "timeout", 0, "give up after this long (default mentor.timeout)")
}

func runMentor(cmd *cobra.Command, args []string) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	ctx := cmd.Context()
	if mentorTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, mentorTimeout)
		defer cancel()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Analyzing your trades...")

	st, err := a.Analyze(ctx)
	if err != nil {
		// a fallback message is an answer, not a failure
		log.Debug("mentor fallback", zap.Error(err))
		fmt.Fprintln(out, st.Message)
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, st.Analysis)
	return nil
}
