package enrich

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/apollo-cli/internal/model"
)

// exportColumns defines the ordered output columns. The verified mobile
// number sits ahead of the diagnostic fields because it is the field the
// batch exists to produce.
var exportColumns = []string{
	"First Name",
	"Last Name",
	"Job Title",
	"Company Name",
	"Company Website",
	"Company Industry",
	"Verified Corporate Email",
	"Verified Mobile Phone Number",
	"LinkedIn URL",
	"Mobile Phone Status (Raw)",
	"Apollo Person ID",
	"Simulated Credits Used",
	"Status",
}

// ExportCSV writes enrichment records as a CSV file, one row per input URL
// in input order.
func ExportCSV(records []model.PersonRecord, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(exportColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for _, rec := range records {
		if err := w.Write(buildRow(rec)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	if err := w.Error(); err != nil {
		return eris.Wrap(err, "export: flush")
	}
	return nil
}

// ExportXLSX writes enrichment records as a single-sheet XLSX workbook with
// the same columns as the CSV export.
func ExportXLSX(records []model.PersonRecord, outputPath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Contacts")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range exportColumns {
		header.AddCell().SetString(col)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		for _, cell := range buildRow(rec) {
			row.AddCell().SetString(cell)
		}
	}

	return eris.Wrap(file.Save(outputPath), "export: save xlsx")
}

// buildRow maps a PersonRecord to an export row in exportColumns order.
// Rows that never reached extraction carry only the URL, status, and an
// empty credits cell.
func buildRow(rec model.PersonRecord) []string {
	credits := ""
	if rec.Status == model.RowStatusEnriched {
		credits = strconv.Itoa(rec.CreditsUsed)
	}

	return []string{
		rec.FirstName,                // First Name
		rec.LastName,                 // Last Name
		rec.Title,                    // Job Title
		rec.CompanyName,              // Company Name
		rec.CompanyWebsite,           // Company Website
		rec.CompanyIndustry,          // Company Industry
		rec.Email,                    // Verified Corporate Email
		rec.VerifiedMobile,           // Verified Mobile Phone Number
		rec.LinkedInURL,              // LinkedIn URL
		string(rec.MobileStatusRaw),  // Mobile Phone Status (Raw)
		rec.PersonID,                 // Apollo Person ID
		credits,                      // Simulated Credits Used
		string(rec.Status),           // Status
	}
}
