package excel

import (
	"bytes"
	"io"
	"testing"

	"github.com/Jarolccis/agreements-core-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var spfHeaders = []string{
	"USUARIO PMM", "AGRUPACION", "BANDERAS EXCLUIDAS",
	"TIENDAS INCLUIDAS", "TIENDAS EXCLUIDAS",
	"TIPO DE REBATE", "CONCEPTO", "GLOSA",
	"CODIGO SPF", "DESCRIPCION SPF",
	"SKU", "FECHA DE INICIO", "FECHA DE FIN",
	"RECO UNITARIO (S/)", "TIPO DE FACTURACIÓN",
}

var pmmHeaders = []string{
	"USUARIO PMM", "AGRUPACION", "BANDERAS EXCLUIDAS",
	"TIENDAS INCLUIDAS", "TIENDAS EXCLUIDAS",
	"TIPO DE REBATE", "CONCEPTO", "GLOSA",
	"SKU", "FECHA DE INICIO", "FECHA DE FIN",
	"RECO UNITARIO (S/)", "TIPO DE FACTURACIÓN",
}

// buildWorkbook writes a single-sheet workbook with the given header row and
// data rows and returns it as a reader.
func buildWorkbook(t *testing.T, sheet string, rows [][]string) io.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	require.NoError(t, err)
	f.SetActiveSheet(index)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestParseDocumentSPF(t *testing.T) {
	r := buildWorkbook(t, SheetSPF, [][]string{
		spfHeaders,
		{"jdoe", "Bebidas", "", "101,102", "", "Rebate Fijo", "Descuento", "Campaña verano",
			"SPF-01", "Acuerdo bebidas", "78001234", "01/03/2025", "31/03/2025", "1.50", "Nota de crédito"},
	})

	p := NewParser(0)
	rows, err := p.ParseDocument(r, domain.SourceSystemSPF)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.NotNil(t, row.PMMUser)
	assert.Equal(t, "jdoe", *row.PMMUser)
	assert.Nil(t, row.ExcludedFlags)
	require.NotNil(t, row.IncludedStores)
	assert.Equal(t, "101,102", *row.IncludedStores)
	require.NotNil(t, row.SPFCode)
	assert.Equal(t, "SPF-01", *row.SPFCode)
	require.NotNil(t, row.SKU)
	assert.Equal(t, "78001234", *row.SKU)
	require.NotNil(t, row.UnitRebatePEN)
	assert.Equal(t, "1.50", *row.UnitRebatePEN)
}

func TestParseDocumentPMMDoesNotRequireSPFColumns(t *testing.T) {
	r := buildWorkbook(t, SheetPMM, [][]string{
		pmmHeaders,
		{"jdoe", "Bebidas", "", "", "205", "Rebate Variable", "Descuento", "",
			"78005678", "01/04/2025", "30/04/2025", "0.80", "Factura"},
	})

	rows, err := NewParser(0).ParseDocument(r, domain.SourceSystemPMM)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].SPFCode)
	require.NotNil(t, rows[0].ExcludedStores)
	assert.Equal(t, "205", *rows[0].ExcludedStores)
}

func TestParseDocumentMissingColumns(t *testing.T) {
	// PMM header set on the SPF sheet lacks the two SPF-only columns.
	r := buildWorkbook(t, SheetSPF, [][]string{pmmHeaders})

	_, err := NewParser(0).ParseDocument(r, domain.SourceSystemSPF)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CODIGO SPF")
	assert.Contains(t, err.Error(), "DESCRIPCION SPF")
}

func TestParseDocumentWrongSheetName(t *testing.T) {
	r := buildWorkbook(t, SheetPMM, [][]string{pmmHeaders})

	_, err := NewParser(0).ParseDocument(r, domain.SourceSystemSPF)
	require.Error(t, err)
	assert.Contains(t, err.Error(), SheetSPF)
}

func TestParseDocumentSkipsBlankRows(t *testing.T) {
	r := buildWorkbook(t, SheetPMM, [][]string{
		pmmHeaders,
		{"", "", "", "", "", "", "", "", "", "", "", "", ""},
		{"jdoe", "", "", "", "", "Rebate Fijo", "Descuento", "", "78001234", "01/03/2025", "31/03/2025", "1.00", "Factura"},
		{"   ", "", "", "", "", "", "", "", "", "", "", "", ""},
	})

	rows, err := NewParser(0).ParseDocument(r, domain.SourceSystemPMM)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseDocumentRowLimit(t *testing.T) {
	r := buildWorkbook(t, SheetPMM, [][]string{
		pmmHeaders,
		{"a", "", "", "", "", "x", "y", "", "1", "01/03/2025", "31/03/2025", "1", "F"},
		{"b", "", "", "", "", "x", "y", "", "2", "01/03/2025", "31/03/2025", "1", "F"},
	})

	_, err := NewParser(1).ParseDocument(r, domain.SourceSystemPMM)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestParseDocumentAcceptsAccentAndCaseVariants(t *testing.T) {
	headers := make([]string, len(pmmHeaders))
	copy(headers, pmmHeaders)
	headers[0] = "usuario pmm"
	headers[1] = "AGRUPACIÓN"
	headers[12] = "tipo de facturacion"

	r := buildWorkbook(t, SheetPMM, [][]string{
		headers,
		{"jdoe", "Bebidas", "", "", "", "Rebate Fijo", "Descuento", "", "78001234", "01/03/2025", "31/03/2025", "1.00", "Factura"},
	})

	rows, err := NewParser(0).ParseDocument(r, domain.SourceSystemPMM)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].GroupName)
	assert.Equal(t, "Bebidas", *rows[0].GroupName)
}

func TestSheetForSource(t *testing.T) {
	assert.Equal(t, SheetSPF, SheetForSource(domain.SourceSystemSPF))
	assert.Equal(t, SheetPMM, SheetForSource(domain.SourceSystemPMM))
}
