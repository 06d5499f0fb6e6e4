package service

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// ExportService renders already-fetched, already-redacted listing rows into
// downloadable documents. It never touches the store.
type ExportService struct{}

func NewExportService() *ExportService { return &ExportService{} }

func statusLabel(active bool) string {
	if active {
		return "Active User"
	}
	return "Deactivated User"
}

// RenderPDF draws the user table: a centered title, a header row, one line
// per user with a light separator.
func (s *ExportService) RenderPDF(rows []UserView) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("User List", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "User List", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	colWidths := []float64{15, 45, 75, 35}
	headers := []string{"No.", "Username", "Email", "Status"}

	pdf.SetFont("Helvetica", "B", 11)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetDrawColor(204, 204, 204)
	for i, r := range rows {
		cells := []string{
			fmt.Sprint(i + 1),
			r.Username,
			r.Email,
			statusLabel(r.IsActive),
		}
		for j, c := range cells {
			pdf.CellFormat(colWidths[j], 7, c, "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderSheet writes the same table as an xlsx workbook with one "Users"
// sheet.
func (s *ExportService) RenderSheet(rows []UserView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Users"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{"ID", "Username", "Email", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i, r := range rows {
		values := []any{r.ID, r.Username, r.Email, statusLabel(r.IsActive)}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
