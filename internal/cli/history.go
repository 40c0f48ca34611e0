package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ppiankov/lockscore/internal/model"
	"github.com/ppiankov/lockscore/internal/store"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyTrend bool
	historyJSON  bool
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [vendor]",
	Short: "List saved assessments",
	Long: `History lists assessments saved with --save (or store.enabled), newest
first. With a vendor and --trend it shows how that vendor's score moved
over time, oldest first, with every category score.

Example:
  lockscore history
  lockscore history "Acme Cloud" --trend`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum assessments to list")
	historyCmd.Flags().BoolVar(&historyTrend, "trend", false, "show the score trend of one vendor")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print JSON instead of a table")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	vendor := ""
	if len(args) == 1 {
		vendor = args[0]
	}
	if historyTrend && vendor == "" {
		return fmt.Errorf("--trend needs a vendor")
	}

	st, err := store.New(cfg.Store.DataDir)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = st.Close() }()

	if historyTrend {
		points, err := st.Trend(cmd.Context(), vendor)
		if err != nil {
			return err
		}
		if historyJSON {
			return printJSON(points)
		}
		printTrend(points)
		return nil
	}

	records, err := st.List(cmd.Context(), vendor, historyLimit)
	if err != nil {
		return err
	}
	if historyJSON {
		return printJSON(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "No saved assessments")
		return nil
	}
	printRecords(records)
	return nil
}

func printRecords(records []store.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ASSESSED\tVENDOR\tSCORE\tTIER\tMETHOD\tID")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\t%s\n",
			r.AssessedAt.Local().Format("2006-01-02 15:04"), r.Vendor, r.TotalScore, r.RiskLevel, r.Method, r.ID)
	}
	_ = w.Flush()
}

func printTrend(points []store.TrendPoint) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "ASSESSED\tTOTAL\tTIER")
	for _, c := range model.Categories() {
		fmt.Fprintf(w, "\t%s", c.Title())
	}
	fmt.Fprintln(w)

	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.2f\t%s", p.AssessedAt.Local().Format("2006-01-02 15:04"), p.TotalScore, p.RiskLevel)
		for _, c := range model.Categories() {
			fmt.Fprintf(w, "\t%.2f", p.CategoryScores[c])
		}
		fmt.Fprintln(w)
	}
	_ = w.Flush()
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
