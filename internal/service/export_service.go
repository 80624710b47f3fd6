package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shayanv/formboard/internal/apperror"
	"github.com/shayanv/formboard/internal/dto"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Responses"

// ExportService serializes a tabulated response set. The encoders carry no
// business logic: the row and column shape of the output is exactly the
// table's, with a leading "Submitted At" column holding each response's
// timestamp.
type ExportService interface {
	WriteCSV(w io.Writer, table *dto.ResponseTableDTO) error
	WriteXLSX(w io.Writer, table *dto.ResponseTableDTO) error
}

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

func exportHeader(table *dto.ResponseTableDTO) []string {
	header := make([]string, 0, len(table.Columns)+1)
	header = append(header, "Submitted At")
	for _, column := range table.Columns {
		header = append(header, column.Text)
	}
	return header
}

func exportRow(row dto.ResponseRowDTO) []string {
	record := make([]string, 0, len(row.Cells)+1)
	record = append(record, row.SubmittedAt.UTC().Format(time.RFC3339))
	return append(record, row.Cells...)
}

func (s *exportService) WriteCSV(w io.Writer, table *dto.ResponseTableDTO) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader(table)); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(exportRow(row)); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX encodes the table as a workbook with a single "Responses" sheet.
// Any failure from the spreadsheet library is reported as a recoverable
// capability error so the caller can tell the administrator instead of
// crashing the request.
func (s *exportService) WriteXLSX(w io.Writer, table *dto.ResponseTableDTO) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", exportSheetName); err != nil {
		return capabilityError(err)
	}

	if err := writeSheetRow(file, 1, exportHeader(table)); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeSheetRow(file, i+2, exportRow(row)); err != nil {
			return err
		}
	}

	if err := file.Write(w); err != nil {
		return capabilityError(err)
	}
	return nil
}

func writeSheetRow(file *excelize.File, rowIndex int, values []string) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowIndex)
		if err != nil {
			return capabilityError(err)
		}
		if err := file.SetCellValue(exportSheetName, cell, value); err != nil {
			return capabilityError(err)
		}
	}
	return nil
}

func capabilityError(err error) error {
	return fmt.Errorf("%w: spreadsheet encoding failed: %v", apperror.ErrCapabilityUnavailable, err)
}
