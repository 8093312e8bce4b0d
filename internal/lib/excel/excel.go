// Package excel parses uploaded agreement spreadsheets.
//
// Each upload carries one sheet named after its source system. The sheet
// headers are the Spanish column titles of the distributed template, matched
// case-insensitively. Parsing only extracts the raw cell text; resolving
// values against catalogs happens later in the pipeline.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Sheet names expected per source system.
const (
	SheetSPF = "Plantilla SPF"
	SheetPMM = "Plantilla PMM"
)

// Template column headers.
const (
	headerPMMUser        = "USUARIO PMM"
	headerGroup          = "AGRUPACION"
	headerExcludedFlags  = "BANDERAS EXCLUIDAS"
	headerIncludedStores = "TIENDAS INCLUIDAS"
	headerExcludedStores = "TIENDAS EXCLUIDAS"
	headerRebateType     = "TIPO DE REBATE"
	headerConcept        = "CONCEPTO"
	headerNote           = "GLOSA"
	headerSPFCode        = "CODIGO SPF"
	headerSPFDescription = "DESCRIPCION SPF"
	headerSKU            = "SKU"
	headerStartDate      = "FECHA DE INICIO"
	headerEndDate        = "FECHA DE FIN"
	headerUnitRebate     = "RECO UNITARIO (S/)"
	headerBillingType    = "TIPO DE FACTURACIÓN"
)

// SheetForSource returns the sheet name an upload must contain.
func SheetForSource(source domain.SourceSystem) string {
	if source == domain.SourceSystemPMM {
		return SheetPMM
	}
	return SheetSPF
}

// requiredHeaders lists the columns a sheet must declare. The SPF template
// carries two extra columns the PMM one does not have.
func requiredHeaders(source domain.SourceSystem) []string {
	headers := []string{
		headerPMMUser, headerGroup, headerExcludedFlags,
		headerIncludedStores, headerExcludedStores,
		headerRebateType, headerConcept, headerNote,
		headerSKU, headerStartDate, headerEndDate,
		headerUnitRebate, headerBillingType,
	}
	if source == domain.SourceSystemSPF {
		headers = append(headers, headerSPFCode, headerSPFDescription)
	}
	return headers
}

// Parser reads agreement template workbooks.
type Parser struct {
	maxRows int
}

// NewParser builds a Parser that rejects sheets with more than maxRows data
// rows. A zero or negative maxRows disables the limit.
func NewParser(maxRows int) *Parser {
	return &Parser{maxRows: maxRows}
}

// ParseDocument reads the workbook and returns one row per non-empty data
// row, raw columns only. The header row is located by title and may appear
// in any column order.
func (p *Parser) ParseDocument(r io.Reader, source domain.SourceSystem) ([]domain.BulkUploadDocumentRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workbook")
	}
	defer f.Close()

	sheet := SheetForSource(source)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("workbook has no sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	columns, err := mapHeaders(rows[0], source)
	if err != nil {
		return nil, err
	}

	dataRows := rows[1:]
	if p.maxRows > 0 && len(dataRows) > p.maxRows {
		return nil, fmt.Errorf("sheet %q has %d rows, the limit is %d", sheet, len(dataRows), p.maxRows)
	}

	var result []domain.BulkUploadDocumentRow
	for _, cells := range dataRows {
		row := buildRow(cells, columns)
		if row != nil {
			result = append(result, *row)
		}
	}
	return result, nil
}

// normalizeHeader folds case, trims whitespace and drops the acute accents
// the templates use, so hand-edited headers still match.
func normalizeHeader(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	replacer := strings.NewReplacer("Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U")
	return replacer.Replace(s)
}

func mapHeaders(headerRow []string, source domain.SourceSystem) (map[string]int, error) {
	columns := make(map[string]int, len(headerRow))
	for i, cell := range headerRow {
		if title := normalizeHeader(cell); title != "" {
			columns[title] = i
		}
	}

	var missing []string
	for _, header := range requiredHeaders(source) {
		if _, ok := columns[normalizeHeader(header)]; !ok {
			missing = append(missing, header)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("sheet is missing columns: %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

// buildRow maps one sheet row onto its raw columns. Returns nil when every
// cell is blank.
func buildRow(cells []string, columns map[string]int) *domain.BulkUploadDocumentRow {
	empty := true
	cell := func(header string) *string {
		idx, ok := columns[normalizeHeader(header)]
		if !ok || idx >= len(cells) {
			return nil
		}
		value := strings.TrimSpace(cells[idx])
		if value == "" {
			return nil
		}
		empty = false
		return &value
	}

	row := domain.BulkUploadDocumentRow{
		PMMUser:        cell(headerPMMUser),
		GroupName:      cell(headerGroup),
		ExcludedFlags:  cell(headerExcludedFlags),
		IncludedStores: cell(headerIncludedStores),
		ExcludedStores: cell(headerExcludedStores),
		RebateType:     cell(headerRebateType),
		Concept:        cell(headerConcept),
		Note:           cell(headerNote),
		SPFCode:        cell(headerSPFCode),
		SPFDescription: cell(headerSPFDescription),
		SKU:            cell(headerSKU),
		StartDate:      cell(headerStartDate),
		EndDate:        cell(headerEndDate),
		UnitRebatePEN:  cell(headerUnitRebate),
		BillingType:    cell(headerBillingType),
	}

	if empty {
		return nil
	}
	return &row
}
