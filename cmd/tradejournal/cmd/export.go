package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/ledger"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal",
	Long: `Export the journal for spreadsheets, notes or backups.

Subcommands:
  csv   - trades and equity curve as two CSV files
  org   - Org-mode performance summary followed by every trade
  yaml  - full ledger with statistics as YAML
  json  - full ledger with statistics as JSON

Examples:
  tradejournal export csv --trades trades.csv --equity equity.csv
  tradejournal export org -o journal.org
  tradejournal export yaml > backup.yaml`,
}

var exportCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Write trades and equity CSV files",
	Args:  cobra.NoArgs,
	RunE:  runExportCSV,
}

var exportOrgCmd = &cobra.Command{
	Use:   "org",
	Short: "Write an Org-mode journal",
	Args:  cobra.NoArgs,
	RunE:  runExportOrg,
}

var exportYAMLCmd = &cobra.Command{
	Use:   "yaml",
	Short: "Write the ledger as YAML",
	Args:  cobra.NoArgs,
	RunE:  runExportYAML,
}

var exportJSONCmd = &cobra.Command{
	Use:   "json",
	Short: "Write the ledger as JSON",
	Args:  cobra.NoArgs,
	RunE:  runExportJSON,
}

var (
	exportTradesPath string
	exportEquityPath string
	exportOutput     string
	exportTitle      string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportCSVCmd)
	exportCmd.AddCommand(exportOrgCmd)
	exportCmd.AddCommand(exportYAMLCmd)
	exportCmd.AddCommand(exportJSONCmd)

	exportCSVCmd.Flags().StringVar(&exportTradesPath, "trades", "trades.csv", "trades CSV path")
	exportCSVCmd.Flags().StringVar(&exportEquityPath, "equity", "equity.csv", "equity curve CSV path")
	exportOrgCmd.Flags().StringVar(&exportTitle, "title", "Trading Journal", "heading of the summary")

	for _, c := range []*cobra.Command{exportOrgCmd, exportYAMLCmd, exportJSONCmd} {
		c.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	}
}

// output opens the export destination; the returned close func is a no-op
// for stdout.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if exportOutput == "" || exportOutput == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(exportOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", exportOutput, err)
	}
	return f, f.Close, nil
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	j, err := journal.NewCSV(exportTradesPath, exportEquityPath)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	if err := journal.Record(j, a.Trades(), a.Curve()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s and %s\n", exportTradesPath, exportEquityPath)
	return nil
}

func runExportOrg(cmd *cobra.Command, args []string) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	w, closeFn, err := output(cmd)
	if err != nil {
		return err
	}

	s := a.Summary()
	s.Title = exportTitle
	if err := s.WriteOrg(w); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func runExportYAML(cmd *cobra.Command, args []string) error {
	return exportSnapshot(cmd, journal.WriteYAML)
}

func runExportJSON(cmd *cobra.Command, args []string) error {
	return exportSnapshot(cmd, journal.WriteJSON)
}

func exportSnapshot(cmd *cobra.Command, write func(io.Writer, ledger.Snapshot) error) error {
	a, log, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	defer log.Sync()

	w, closeFn, err := output(cmd)
	if err != nil {
		return err
	}
	if err := write(w, a.Snapshot()); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
