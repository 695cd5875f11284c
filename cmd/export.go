package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/engitrack/engitrack/internal/export"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all records to a CSV file",
	Long: `Writes every record to Engineering_Projects_<date>.csv using the current
column schema. Removed columns are not exported.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", "",
		"output directory (default: export_dir from config)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	trk, err := openTracker()
	if err != nil {
		return err
	}
	defer func() { _ = trk.Close() }()

	dir := exportDir
	if dir == "" {
		dir = cfg.ExportDir
	}

	path, err := export.WriteFile(dir, trk.Records(), trk.Columns(), time.Now())
	if err != nil {
		return fmt.Errorf("exporting records: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", len(trk.Records()), path)
	return nil
}
