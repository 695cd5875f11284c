package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/engitrack/engitrack/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate statistics for all records",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().String("category-field", "",
		"column key to group by (default: category_field from config)")
	statsCmd.Flags().String("sum-field", "",
		"numeric column key to total (default: sum_field from config)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	trk, err := openTracker()
	if err != nil {
		return err
	}
	defer func() { _ = trk.Close() }()

	opts := stats.Options{
		CategoryField: cfg.Stats.CategoryField,
		SumField:      cfg.Stats.SumField,
	}
	if v, _ := cmd.Flags().GetString("category-field"); v != "" {
		opts.CategoryField = v
	}
	if v, _ := cmd.Flags().GetString("sum-field"); v != "" {
		opts.SumField = v
	}

	summary := trk.Stats(opts)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "项目总数: %d\n", summary.TotalProjects)
	fmt.Fprintf(out, "%s 合计: %s\n", opts.SumField, trimTrailingZeros(summary.Total))

	fmt.Fprintf(out, "\n按 %s:\n", opts.CategoryField)
	for _, b := range summary.Categories {
		fmt.Fprintf(out, "  %-20s %d\n", b.Name, b.Count)
	}

	fmt.Fprintln(out, "\n按录入人:")
	for _, b := range summary.Creators {
		fmt.Fprintf(out, "  %-20s %d\n", b.Name, b.Count)
	}
	return nil
}

func trimTrailingZeros(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
