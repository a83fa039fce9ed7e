package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aircare/internal/domain"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter writes submitted requests into an Excel workbook for the back
// office.
type Exporter struct {
	store  domain.RequestStore
	path   string
	logger *zerolog.Logger
}

func NewExporter(store domain.RequestStore, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{
		store:  store,
		path:   path,
		logger: logger,
	}
}

var exportHeaders = []string{
	"request_id", "status", "service_type", "aircon_type", "brand",
	"customer_type", "client_name", "customer_phone",
	"customer_address", "customer_address_detail",
	"partner_name", "engineer_name",
	"service_date", "service_time", "created_at", "memo",
}

// ExportRequests creates an xlsx file covering [start, end) and returns its path.
func (e *Exporter) ExportRequests(ctx context.Context, start, end time.Time) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	requests, err := e.store.GetRequestsByDateRange(ctx, start, end)
	if err != nil {
		return "", fmt.Errorf("error getting requests: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Requests"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Период: %s - %s",
		start.Format("02.01.2006"), end.Format("02.01.2006")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, req := range requests {
		row := i + 3
		values := []interface{}{
			req.RequestID, req.Status, req.ServiceType, req.AirconType, req.Brand,
			req.CustomerType, req.ClientName, req.CustomerPhone,
			req.CustomerAddress, req.CustomerAddressDetail,
			req.PartnerName, req.EngineerName,
			req.ServiceDate, req.ServiceTime, req.CreatedAt, req.Memo,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	for c := 'B'; c <= 'P'; c++ {
		_ = f.SetColWidth(sheetName, string(c), string(c), 18)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("requests_%s_to_%s.xlsx",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	filePath := filepath.Join(e.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(requests)).Msg("Excel file created")
	return filePath, nil
}
