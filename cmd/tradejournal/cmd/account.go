package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/rustyeddy/tradejournal/stats"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the initial and current balance",
	Args:  cobra.NoArgs,
	RunE:  runBalance,
}

var balanceSetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the initial balance",
	Long: `Replace the starting balance. The current balance is re-derived from it
and the P/L of every logged trade.

Example:
  tradejournal balance set 25000`,
	Args: cobra.ExactArgs(1),
	RunE: runBalanceSet,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Performance statistics over closed trades",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var equityCmd = &cobra.Command{
	Use:   "equity",
	Short: "Print the equity curve of closed trades by date",
	Args:  cobra.NoArgs,
	RunE:  runEquity,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.AddCommand(balanceSetCmd)
	rootCmd.AddCommand(statsCmd)
	addFilterFlags(statsCmd)
	rootCmd.AddCommand(equityCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	acct := a.Account()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initial balance: %.2f\n", acct.InitialBalance)
	fmt.Fprintf(out, "Current balance: %.2f\n", acct.CurrentBalance)
	fmt.Fprintf(out, "Return:          %.2f%%\n", stats.ReturnPct(acct.InitialBalance, acct.CurrentBalance))
	return nil
}

func runBalanceSet(cmd *cobra.Command, args []string) error {
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("amount %q is not a number", args[0])
	}

	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	err = a.SetInitialBalance(cmd.Context(), v)
	if err != nil && a.Account().InitialBalance != v {
		return fmt.Errorf("set balance: %w", err)
	}
	acct := a.Account()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Initial balance %.2f, current balance %.2f\n", acct.InitialBalance, acct.CurrentBalance)
	return warnUnsaved(cmd, err)
}

func runStats(cmd *cobra.Command, args []string) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	st, err := a.StatsFor(filter)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Closed trades:  %d\n", st.TotalTrades)
	fmt.Fprintf(out, "Wins / Losses:  %d / %d\n", st.Wins, st.Losses)
	fmt.Fprintf(out, "Win rate:       %.2f%%\n", st.WinRate)
	fmt.Fprintf(out, "Total P/L:      %s\n", signed(st.TotalPnL))
	fmt.Fprintf(out, "Gross profit:   %.2f\n", st.GrossProfit)
	fmt.Fprintf(out, "Gross loss:     %.2f\n", st.GrossLoss)
	fmt.Fprintf(out, "Profit factor:  %s\n", st.ProfitFactor)
	return nil
}

func runEquity(cmd *cobra.Command, args []string) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	curve := a.Curve()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "POINT\tP/L\tBALANCE\t")
	for _, p := range curve {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t\n", p.Label, signed(p.PnL), p.Balance)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	dd := stats.MaxDrawdown(curve)
	if dd.Amount > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nMax drawdown: %.2f (%.2f%%) from %s to %s\n", dd.Amount, dd.Pct, dd.Peak, dd.Trough)
	}
	return nil
}
