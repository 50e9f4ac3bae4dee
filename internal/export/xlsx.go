// Package export renders enriched order snapshots as XLSX workbooks
// for the finance team's spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"

	"github.com/tuvalum/margin-service/internal/types"
)

// SheetName is the single worksheet written to every workbook.
const SheetName = "Pedidos"

var supportedLocales = []language.Tag{
	language.Spanish, // default
	language.French,
	language.English,
}

var localeMatcher = language.NewMatcher(supportedLocales)

// headers are indexed by column, one slice per supported locale.
var headers = map[language.Tag][]string{
	language.Spanish: {
		"SKU", "Pedido", "País", "Canal", "Precio (EUR)", "Coste (EUR)",
		"Margen (EUR)", "Rotación (días)", "Fecha", "Subcategoría", "Régimen fiscal",
	},
	language.French: {
		"SKU", "Commande", "Pays", "Canal", "Prix (EUR)", "Coût (EUR)",
		"Marge (EUR)", "Rotation (jours)", "Date", "Sous-catégorie", "Régime fiscal",
	},
	language.English: {
		"SKU", "Order", "Country", "Channel", "Price (EUR)", "Cost (EUR)",
		"Margin (EUR)", "Rotation (days)", "Date", "Subcategory", "Fiscal regime",
	},
}

// ResolveLocale maps an Accept-Language value (or a bare locale such as
// "fr") onto a supported header locale, falling back to Spanish.
func ResolveLocale(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.Spanish
	}
	_, index, _ := localeMatcher.Match(tags...)
	return supportedLocales[index]
}

// Workbook renders the orders into an XLSX workbook with headers in the
// given locale and returns the serialized file.
func Workbook(orders []types.EnrichedOrder, locale language.Tag) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create worksheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	cols, ok := headers[locale]
	if !ok {
		cols = headers[language.Spanish]
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	headerRow := make([]interface{}, len(cols))
	for i, h := range cols {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(cols))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header row: %w", err)
	}

	for i, order := range orders {
		row := []interface{}{
			order.SKU,
			order.OrderName,
			order.Country,
			string(order.Channel),
			order.TotalEUR.InexactFloat64(),
			order.PurchaseCost.InexactFloat64(),
			order.NetMargin.InexactFloat64(),
			order.StockAgeDays,
			order.CreatedAt.Format("2006-01-02"),
			order.Subcategory,
			string(order.FiscalRegime),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename builds the attachment name for a snapshot export.
func Filename(since time.Time) string {
	return fmt.Sprintf("pedidos_%s.xlsx", since.Format("2006-01-02"))
}
