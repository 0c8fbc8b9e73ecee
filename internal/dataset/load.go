package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"loan-feature-engine/internal/logger"
	"loan-feature-engine/internal/model"
)

const (
	ColumnID              = "id"
	ColumnApplicationDate = "application_date"
	ColumnContracts       = "contracts"
)

// Load reads the application dataset from a CSV file.
func Load(path string, log *logger.Logger) ([]model.ClientRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Read(f, log)
}

// Read parses CSV rows with at least the id, application_date and contracts
// columns. Unparsable dates and contracts are logged and treated as absent;
// only a bad id fails the load.
func Read(r io.Reader, log *logger.Logger) ([]model.ClientRow, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("read dataset: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range []string{ColumnID, ColumnApplicationDate, ColumnContracts} {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("read dataset: missing column %q", name)
		}
	}

	var rows []model.ClientRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset line %d: %w", line, err)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(record[columns[ColumnID]]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("read dataset line %d: parse id: %w", line, err)
		}

		appDate, err := ConvertApplicationDate(record[columns[ColumnApplicationDate]])
		if err != nil {
			log.Warn("Error parsing application date", "id", id, "line", line, "error", err)
		}

		raw := record[columns[ColumnContracts]]
		contracts, err := ConvertContracts(raw)
		if err != nil {
			log.Warn("Error parsing contracts", "id", id, "line", line, "error", err)
		}

		rows = append(rows, model.ClientRow{
			ID:              id,
			ApplicationDate: appDate,
			Contracts:       contracts,
			RawContracts:    raw,
		})
	}

	log.Info("Dataset loaded", "rows", len(rows))
	return rows, nil
}
