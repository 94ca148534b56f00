package procurement

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fibreflow/procurement/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// maxImportFileSize bounds the accepted BOQ upload
const maxImportFileSize = 10 << 20

// knownUOMs is the accepted unit-of-measure vocabulary for BOQ rows
var knownUOMs = map[string]struct{}{
	"each":  {},
	"ea":    {},
	"m":     {},
	"meter": {},
	"km":    {},
	"roll":  {},
	"drum":  {},
	"coil":  {},
	"box":   {},
	"set":   {},
	"kg":    {},
	"pcs":   {},
	"lot":   {},
}

// ImportRow is one parsed and validated line of a BOQ upload.
// Column order: item code, description, uom, quantity, unit price.
type ImportRow struct {
	LineNumber  int
	ItemCode    string
	Description string
	UOM         string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// ParseImportFile parses a BOQ upload into validated rows. The whole file
// is rejected on the first invalid row; no partial result is returned.
func ParseImportFile(fileName string, data []byte) ([]ImportRow, error) {
	if len(data) == 0 {
		return nil, importError("file is empty")
	}
	if len(data) > maxImportFileSize {
		return nil, importError(fmt.Sprintf("file exceeds %d byte limit", maxImportFileSize))
	}

	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		records, err = parseCSV(data)
	case ".xlsx":
		records, err = parseXLSX(data)
	default:
		return nil, importError("unsupported file type, expected .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}
	return validateRows(records)
}

func parseCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, importError("malformed CSV: " + err.Error())
		}
		records = append(records, record)
	}
	return records, nil
}

func parseXLSX(data []byte) ([][]string, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, importError("malformed workbook: " + err.Error())
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, importError("workbook has no sheets")
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, importError("failed to read sheet: " + err.Error())
	}
	return rows, nil
}

// validateRows checks every data row and fails the whole import on the
// first violation. The first row is treated as a header when its quantity
// column is not numeric.
func validateRows(records [][]string) ([]ImportRow, error) {
	start := 0
	if len(records) > 0 && looksLikeHeader(records[0]) {
		start = 1
	}
	if len(records) <= start {
		return nil, importError("no item rows found")
	}

	rows := make([]ImportRow, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		record := records[i]
		rowNumber := i + 1
		if isBlankRow(record) {
			continue
		}
		if len(record) < 4 {
			return nil, importError(fmt.Sprintf("row %d: expected at least 4 columns, got %d", rowNumber, len(record)))
		}

		description := strings.TrimSpace(record[1])
		if description == "" {
			return nil, importError(fmt.Sprintf("row %d: description is required", rowNumber))
		}

		uom := strings.ToLower(strings.TrimSpace(record[2]))
		if _, ok := knownUOMs[uom]; !ok {
			return nil, importError(fmt.Sprintf("row %d: unknown unit of measure %q", rowNumber, record[2]))
		}

		quantity, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, importError(fmt.Sprintf("row %d: quantity %q is not numeric", rowNumber, record[3]))
		}
		if quantity.IsNegative() {
			return nil, importError(fmt.Sprintf("row %d: quantity must not be negative", rowNumber))
		}

		unitPrice := decimal.Zero
		if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
			unitPrice, err = decimal.NewFromString(strings.TrimSpace(record[4]))
			if err != nil {
				return nil, importError(fmt.Sprintf("row %d: unit price %q is not numeric", rowNumber, record[4]))
			}
			if unitPrice.IsNegative() {
				return nil, importError(fmt.Sprintf("row %d: unit price must not be negative", rowNumber))
			}
		}

		rows = append(rows, ImportRow{
			LineNumber:  rowNumber,
			ItemCode:    strings.TrimSpace(record[0]),
			Description: description,
			UOM:         uom,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
		})
	}
	if len(rows) == 0 {
		return nil, importError("no item rows found")
	}
	return rows, nil
}

func looksLikeHeader(record []string) bool {
	if len(record) < 4 {
		return true
	}
	_, err := decimal.NewFromString(strings.TrimSpace(record[3]))
	return err != nil
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func importError(detail string) error {
	return shared.NewDomainError("VALIDATION_FAILED", "Invalid BOQ import data: "+detail)
}
