package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/pkg/id"
	"github.com/rustyeddy/tradejournal/stats"
	"github.com/rustyeddy/tradejournal/storage"
	"github.com/rustyeddy/tradejournal/trade"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a trade",
	Long: `Log one trade. Closed trades are priced immediately and their P/L is
frozen; open trades carry zero P/L.

Quantity is in standard lots for Forex (1 lot = 100,000 units) and in units,
contracts or points for every other asset class.

Examples:
  tradejournal add --symbol EURUSD --entry 1.1000 --exit 1.1050 --qty 1
  tradejournal add --asset Stocks --symbol NVDA --direction short --entry 900 --exit 880 --qty 10
  tradejournal add --asset Crypto --symbol BTCUSD --entry 60000 --qty 0.1 --status open`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged trades in log order",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show <trade-id>",
	Short: "Print one trade as an Org-mode block",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <trade-id>",
	Short: "Delete a trade by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var (
	addInput trade.Input
	listOrg  bool
	listLast int
	filter   stats.Query
)

// addFilterFlags binds the trade filters shared by list and stats.
func addFilterFlags(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&filter.Symbol, "symbol", "", "only this symbol")
	f.StringVar(&filter.AssetClass, "asset", "", "only this asset class")
	f.StringVar(&filter.Status, "status", "", "only Open or Closed trades")
	f.StringVar(&filter.From, "from", "", "only trades on or after this date")
	f.StringVar(&filter.To, "to", "", "only trades on or before this date")
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)

	f := addCmd.Flags()
	f.StringVar(&addInput.Date, "date", time.Now().Format("2006-01-02"), "trade date (YYYY-MM-DD)")
	f.StringVarP(&addInput.AssetClass, "asset", "a", string(trade.Forex), "asset class: Forex, Crypto, Index, Commodity, Futures, Metals, Stocks")
	f.StringVarP(&addInput.Symbol, "symbol", "s", "", "instrument symbol (required)")
	f.StringVarP(&addInput.Direction, "direction", "d", string(trade.Long), "Long or Short")
	f.StringVar(&addInput.EntryPrice, "entry", "", "entry price (required)")
	f.StringVar(&addInput.ExitPrice, "exit", "", "exit price (defaults to entry)")
	f.StringVarP(&addInput.Quantity, "qty", "q", "", "position size (required)")
	f.StringVar(&addInput.Status, "status", string(trade.Closed), "Open or Closed")
	f.StringVarP(&addInput.Notes, "notes", "n", "", "free text notes")
	f.StringVar(&addInput.Fees, "fees", "", "fees paid (recorded, not netted into P/L)")

	listCmd.Flags().BoolVar(&listOrg, "org", false, "print Org-mode blocks instead of a table")
	listCmd.Flags().IntVar(&listLast, "last", 0, "only the N most recently logged trades")
	addFilterFlags(listCmd)
}

// warnUnsaved prints a storage failure and passes it through. Any other
// error is returned unchanged.
func warnUnsaved(cmd *cobra.Command, err error) error {
	var se *storage.StorageError
	if errors.As(err, &se) {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ change applied but not saved: %v\n", se)
	}
	return err
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	t, err := a.AddTrade(cmd.Context(), addInput)
	if t.ID == "" {
		return fmt.Errorf("add trade: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Logged %s %s %s (%s)\n", t.Status, t.Direction, t.Symbol, t.ID)
	fmt.Fprintf(out, "  P/L: %s  Balance: %.2f\n", signed(t.PnL()), a.Account().CurrentBalance)
	return warnUnsaved(cmd, err)
}

func runList(cmd *cobra.Command, args []string) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	trades, err := a.FindTrades(filter)
	if err != nil {
		return err
	}
	if listLast > 0 && listLast < len(trades) {
		trades = trades[len(trades)-listLast:]
	}

	out := cmd.OutOrStdout()
	if listOrg {
		fmt.Fprintln(out, journal.FormatTradesOrg(trades))
		return nil
	}
	if len(trades) == 0 {
		if filter.Empty() {
			fmt.Fprintln(out, "No trades logged yet.")
		} else {
			fmt.Fprintln(out, "No matching trades.")
		}
		return nil
	}
	return writeTradeTable(out, trades)
}

func writeTradeTable(out io.Writer, trades []trade.Trade) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tASSET\tSYMBOL\tDIR\tENTRY\tEXIT\tQTY\tSTATUS\tP/L")
	for _, t := range trades {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%g\t%g\t%g\t%s\t%s\n",
			t.ID, t.Date, t.AssetClass, t.Symbol, t.Direction,
			t.EntryPrice, t.ExitPrice, t.Quantity, t.Status, signed(t.PnL()))
	}
	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	t, ok := a.Trade(args[0])
	if !ok {
		if !id.Valid(args[0]) {
			return fmt.Errorf("%q is not a trade id", args[0])
		}
		return fmt.Errorf("trade %q not found", args[0])
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, journal.FormatTradeOrg(t))
	if at, ok := id.Time(t.ID); ok {
		fmt.Fprintf(out, "Logged at %s\n", at.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	removed, err := a.DeleteTrade(cmd.Context(), args[0])
	out := cmd.OutOrStdout()
	if !removed {
		fmt.Fprintf(out, "No trade with id %s.\n", args[0])
		return nil
	}
	fmt.Fprintf(out, "✓ Deleted %s. Balance: %.2f\n", args[0], a.Account().CurrentBalance)
	return warnUnsaved(cmd, err)
}

func signed(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}
