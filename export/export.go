package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"payroll/models"

	"github.com/xuri/excelize/v2"
)

var header = []string{"Employee", "Employee ID", "Type", "Period", "Hours", "Amount", "Computed", "Synced"}

func row(r models.PayrollRecord) []string {
	hours := ""
	if r.HoursWorked != nil {
		hours = fmt.Sprintf("%.2f", *r.HoursWorked)
	}
	synced := "no"
	if r.Synced {
		synced = "yes"
	}
	return []string{
		r.EmployeeName,
		r.EmployeeID,
		string(r.Kind),
		r.Period,
		hours,
		fmt.Sprintf("%.2f", r.Amount),
		time.UnixMilli(r.ComputedAt).UTC().Format("2006-01-02 15:04"),
		synced,
	}
}

func WriteCSV(w io.Writer, records []models.PayrollRecord) error {
	writer := csv.NewWriter(w)

	// Write header
	if err := writer.Write(header); err != nil {
		return err
	}

	// Write data
	for _, r := range records {
		if err := writer.Write(row(r)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

const sheetName = "Payroll"

func WriteXLSX(w io.Writer, records []models.PayrollRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, r := range records {
		cells := row(r)
		values := make([]interface{}, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		// Hours and amount are written as numbers.
		if r.HoursWorked != nil {
			values[4] = *r.HoursWorked
		}
		values[5] = r.Amount
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, n int, cells []string) error {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, cell, &values)
}
