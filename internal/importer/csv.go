package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
)

type CSVStrategy struct{}

func NewCSVStrategy() *CSVStrategy {
	return &CSVStrategy{}
}

func (s *CSVStrategy) Rows(ctx context.Context, data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	// Device exports pad title lines and rows unevenly, so no fixed
	// field count and no strict quoting.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read delimited file: %w", err)
	}
	return rows, nil
}
