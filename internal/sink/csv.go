package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"loan-feature-engine/internal/model"
)

const applicationDateLayout = "2006-01-02 15:04:05.999999"

type CSVSink struct {
	path string
}

func NewCSV(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Write(_ context.Context, rows []model.ClientRow, results []model.ClientResult, featureNames []string) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := WriteCSV(f, rows, results, featureNames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *CSVSink) Close() error { return nil }

// WriteCSV writes the source columns followed by one column per feature.
func WriteCSV(w io.Writer, rows []model.ClientRow, results []model.ClientResult, featureNames []string) error {
	if len(rows) != len(results) {
		return fmt.Errorf("write csv: %d rows but %d results", len(rows), len(results))
	}

	cw := csv.NewWriter(w)
	header := append([]string{"id", "application_date", "contracts"}, featureNames...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(header))
	for i, row := range rows {
		record[0] = strconv.FormatInt(row.ID, 10)
		record[1] = ""
		if row.ApplicationDate != nil {
			record[1] = row.ApplicationDate.Format(applicationDateLayout)
		}
		record[2] = row.RawContracts
		for j, name := range featureNames {
			v, ok := results[i].Features[name]
			if !ok {
				record[3+j] = ""
				continue
			}
			record[3+j] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
