package importer

import (
	"strings"

	apperrors "github.com/spacemudd/clarimount2025-sub000/pkg/errors"
)

// headerScanWindow bounds how deep into the file the header row may sit.
// Device exports put a report title and a date-range line above it.
const headerScanWindow = 5

// headerMatchThreshold is the share of required headers a line must
// carry to be accepted as the header row.
const headerMatchThreshold = 0.8

var requiredHeaders = []string{
	"employee id",
	"first name",
	"department",
	"date",
	"weekday",
	"check in",
	"check out",
}

var titlePhrases = []string{
	"attendance report",
	"attendance record",
	"attendance log",
	"report period",
	"exported",
}

// DiscoverHeader scans the leading lines for the header row and returns
// the column index per normalized header name plus the index of the
// first data row. Title-looking lines are skipped. Returns
// ErrHeaderNotFound when no line within the scan window qualifies.
func DiscoverHeader(rows [][]string) (map[string]int, int, error) {
	limit := headerScanWindow
	if len(rows) < limit {
		limit = len(rows)
	}

	for i := 0; i < limit; i++ {
		cells := rows[i]
		if isTitleLine(cells) {
			continue
		}

		columns := make(map[string]int, len(cells))
		for idx, cell := range cells {
			name := normalizeHeader(cell)
			if name == "" {
				continue
			}
			if _, seen := columns[name]; !seen {
				columns[name] = idx
			}
		}

		matched := 0
		for _, want := range requiredHeaders {
			if _, ok := columns[want]; ok {
				matched++
			}
		}

		if float64(matched) >= headerMatchThreshold*float64(len(requiredHeaders)) {
			return columns, i + 1, nil
		}
	}

	return nil, 0, apperrors.ErrHeaderNotFound
}

// isTitleLine guesses whether a line is a report title rather than data
// or headers: a non-empty first cell with at most two non-empty cells
// overall, or a cell carrying a known title phrase.
func isTitleLine(cells []string) bool {
	nonEmpty := 0
	firstFilled := false
	for i, cell := range cells {
		trimmed := strings.TrimSpace(cell)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if i == 0 {
			firstFilled = true
		}
		lower := strings.ToLower(trimmed)
		for _, phrase := range titlePhrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}
	return firstFilled && nonEmpty <= 2
}

func normalizeHeader(cell string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(cell))), " ")
}
