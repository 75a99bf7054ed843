package importer

import (
	"context"
	"path/filepath"
	"strings"
)

// ParsingStrategy turns one uploaded attendance export into a grid of
// raw cells. Header discovery and row validation happen downstream and
// are shared between formats.
type ParsingStrategy interface {
	Rows(ctx context.Context, data []byte) ([][]string, error)
}

// StrategyForFilename picks the parsing strategy by file extension.
// Fingerprint terminals export either delimited text or a spreadsheet.
func StrategyForFilename(filename string) ParsingStrategy {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return NewXLSXStrategy()
	default:
		return NewCSVStrategy()
	}
}
