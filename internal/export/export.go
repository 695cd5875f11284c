// Package export writes the record table to CSV for downstream tooling.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/engitrack/engitrack/internal/log"
	"github.com/engitrack/engitrack/internal/record"
	"github.com/engitrack/engitrack/internal/schema"
)

// Filename returns the dated export file name.
func Filename(now time.Time) string {
	return "Engineering_Projects_" + now.Format("2006-01-02") + ".csv"
}

// Write renders one row per record: the creator, the creation date, then one
// cell per live column. Fields without a live column are not exported;
// records missing a column's field get a blank cell.
func Write(w io.Writer, records []record.Record, columns []schema.Column) error {
	cw := csv.NewWriter(w)

	header := []string{"录入人", "录入时间"}
	for _, col := range columns {
		header = append(header, col.Label)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		row := []string{r.CreatedBy, r.CreatedAt.Format("2006-01-02")}
		for _, col := range columns {
			row = append(row, cellValue(r.Fields[col.Key]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the export into dir and returns the created path.
func WriteFile(dir string, records []record.Record, columns []schema.Column, now time.Time) (string, error) {
	path := filepath.Join(dir, Filename(now))
	f, err := os.Create(path) //nolint:gosec // G304: export path chosen by the user
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}

	if err := Write(f, records, columns); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close export file: %w", err)
	}

	log.Info(log.CatExport, "export written", "path", path, "records", len(records))
	return path, nil
}

func cellValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(n)
	default:
		return fmt.Sprintf("%v", n)
	}
}
