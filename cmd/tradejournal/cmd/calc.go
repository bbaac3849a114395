package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradejournal/calc"
	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Trading calculators",
	Long: `Standalone calculators. Nothing is written to the journal.

Subcommands:
  pips    - pips and estimated USD result of a forex move
  options - P/L of an equity option position
  size    - position size for a fixed percentage risk

Examples:
  tradejournal calc pips --pair USDJPY --entry 150.00 --exit 150.50 --lots 2
  tradejournal calc options --type put --contracts 3 --entry 2.10 --exit 3.40
  tradejournal calc size --equity 10000 --risk 1 --entry 1.1000 --stop 1.0950 --tp 1.1100`,
}

var calcPipsCmd = &cobra.Command{
	Use:   "pips",
	Short: "Pips between entry and exit",
	Args:  cobra.NoArgs,
	RunE:  runCalcPips,
}

var calcOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Options P/L, (exit - entry) * 100 * contracts",
	Args:  cobra.NoArgs,
	RunE:  runCalcOptions,
}

var calcSizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Units and lots that risk a percentage of equity",
	Args:  cobra.NoArgs,
	RunE:  runCalcSize,
}

var (
	pipsPair  string
	pipsEntry float64
	pipsExit  float64
	pipsLots  float64

	optType      string
	optContracts float64
	optEntry     float64
	optExit      float64

	sizeEquity float64
	sizeRisk   float64
	sizeEntry  float64
	sizeStop   float64
	sizeTP     float64
	sizePair   string
	sizeQuote  float64
)

func init() {
	rootCmd.AddCommand(calcCmd)
	calcCmd.AddCommand(calcPipsCmd)
	calcCmd.AddCommand(calcOptionsCmd)
	calcCmd.AddCommand(calcSizeCmd)

	pf := calcPipsCmd.Flags()
	pf.StringVar(&pipsPair, "pair", "EURUSD", "currency pair")
	pf.Float64Var(&pipsEntry, "entry", 0, "entry price")
	pf.Float64Var(&pipsExit, "exit", 0, "exit price")
	pf.Float64Var(&pipsLots, "lots", 1, "standard lots")

	of := calcOptionsCmd.Flags()
	of.StringVar(&optType, "type", string(calc.Call), "call or put")
	of.Float64Var(&optContracts, "contracts", 1, "number of contracts")
	of.Float64Var(&optEntry, "entry", 0, "premium paid per share")
	of.Float64Var(&optExit, "exit", 0, "premium received per share")

	sf := calcSizeCmd.Flags()
	sf.Float64Var(&sizeEquity, "equity", 0, "account equity (default current balance)")
	sf.Float64Var(&sizeRisk, "risk", 1, "risk per trade in percent")
	sf.Float64Var(&sizeEntry, "entry", 0, "entry price")
	sf.Float64Var(&sizeStop, "stop", 0, "stop loss price")
	sf.Float64Var(&sizeTP, "tp", 0, "take profit price, prints reward to risk")
	sf.StringVar(&sizePair, "pair", "EURUSD", "currency pair")
	sf.Float64Var(&sizeQuote, "quote", 1, "quote currency to account currency rate")
}

// flagPtr returns a pointer to v when the flag was given on the command line.
func flagPtr(cmd *cobra.Command, name string, v float64) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func runCalcPips(cmd *cobra.Command, args []string) error {
	in := calc.PipsInput{
		Pair:  pipsPair,
		Entry: flagPtr(cmd, "entry", pipsEntry),
		Exit:  flagPtr(cmd, "exit", pipsExit),
		Lots:  &pipsLots,
	}
	if in.Entry == nil || in.Exit == nil {
		return fmt.Errorf("--entry and --exit are required")
	}

	res := calc.Pips(in)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pips:   %.1f\n", res.Pips)
	fmt.Fprintf(out, "Profit: %s USD\n", signed(res.Profit))
	return nil
}

func runCalcOptions(cmd *cobra.Command, args []string) error {
	typ, err := calc.ParseOptionType(optType)
	if err != nil {
		return err
	}
	in := calc.OptionsInput{
		Type:         typ,
		Contracts:    optContracts,
		EntryPremium: flagPtr(cmd, "entry", optEntry),
		ExitPremium:  flagPtr(cmd, "exit", optExit),
	}
	if in.EntryPremium == nil || in.ExitPremium == nil {
		return fmt.Errorf("--entry and --exit are required")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s P/L: %s\n", typ, signed(calc.OptionsPnL(in)))
	return nil
}

func runCalcSize(cmd *cobra.Command, args []string) error {
	equity := sizeEquity
	if !cmd.Flags().Changed("equity") {
		a, log, err := openApp(cmd)
		if err != nil {
			return err
		}
		equity = a.Account().CurrentBalance
		a.Close()
		log.Sync()
	}

	res, err := calc.PositionSize(calc.SizeInputs{
		Equity:         equity,
		RiskPct:        sizeRisk / 100,
		EntryPrice:     sizeEntry,
		StopPrice:      sizeStop,
		PipLocation:    calc.PipLocation(sizePair),
		QuoteToAccount: sizeQuote,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Equity:    %.2f\n", equity)
	fmt.Fprintf(out, "Risk:      %.2f (%.2f%%)\n", res.RiskAmount, sizeRisk)
	fmt.Fprintf(out, "Stop:      %.1f pips\n", res.StopPips)
	fmt.Fprintf(out, "Units:     %.0f\n", res.Units)
	fmt.Fprintf(out, "Lots:      %.2f\n", res.Lots)
	if cmd.Flags().Changed("tp") {
		fmt.Fprintf(out, "R:R        1:%.2f\n", calc.RR(sizeEntry, sizeStop, sizeTP))
	}
	return nil
}
