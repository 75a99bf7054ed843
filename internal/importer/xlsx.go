package importer

import (
	"bytes"
	"context"
	"fmt"

	apperrors "github.com/spacemudd/clarimount2025-sub000/pkg/errors"

	"github.com/xuri/excelize/v2"
)

type XLSXStrategy struct{}

func NewXLSXStrategy() *XLSXStrategy {
	return &XLSXStrategy{}
}

func (s *XLSXStrategy) Rows(ctx context.Context, data []byte) ([][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.ErrHeaderNotFound
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
