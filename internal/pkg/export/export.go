package export

import (
	"fmt"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv"

	PayrollSheet  = "Payroll"
	PaymentsSheet = "Payments"

	moneyFormat = "#,##0.00"
)

var payrollHeader = []interface{}{
	"Employee Code", "Employee Name", "Period", "Basic Salary", "Allowance", "Overtime Pay",
	"Bonus", "Deductions", "Total Salary", "Working Days", "Absent Days", "Overtime Hours", "Status",
}

var paymentHeader = []interface{}{
	"Employee Code", "Employee Name", "Period", "Amount", "Payment Date", "Method", "Reference", "Status",
}

// PayrollWorkbook renders the records of one period as an XLSX file with a totals row.
func PayrollWorkbook(month, year int, records []payroll.PayrollRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", PayrollSheet); err != nil {
		return nil, err
	}
	if err := writeHeader(f, PayrollSheet, payrollHeader); err != nil {
		return nil, err
	}

	period := fmt.Sprintf("%04d-%02d", year, month)
	totals := make([]decimal.Decimal, 6)
	for i, r := range records {
		amounts := []decimal.Decimal{r.BasicSalary, r.Allowance, r.OvertimePay, r.Bonus, r.Deductions, r.TotalSalary}
		row := []interface{}{deref(r.EmployeeCode), deref(r.EmployeeName), period}
		for j, a := range amounts {
			row = append(row, a.InexactFloat64())
			totals[j] = totals[j].Add(a)
		}
		row = append(row, r.WorkingDays, r.AbsentDays, r.OvertimeHours.InexactFloat64(), string(r.Status))

		if err := setRow(f, PayrollSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	totalRow := []interface{}{"TOTAL", "", period}
	for _, t := range totals {
		totalRow = append(totalRow, t.InexactFloat64())
	}
	lastRow := len(records) + 2
	if err := setRow(f, PayrollSheet, lastRow, totalRow); err != nil {
		return nil, err
	}
	if err := formatMoney(f, PayrollSheet, "D", "I", lastRow); err != nil {
		return nil, err
	}

	return write(f)
}

// PaymentsWorkbook renders payments as an XLSX file.
func PaymentsWorkbook(payments []payment.Payment) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", PaymentsSheet); err != nil {
		return nil, err
	}
	if err := writeHeader(f, PaymentsSheet, paymentHeader); err != nil {
		return nil, err
	}

	for i, p := range payments {
		row := []interface{}{
			deref(p.EmployeeCode),
			deref(p.EmployeeName),
			periodOf(p),
			p.Amount.InexactFloat64(),
			p.PaymentDate.Format("2006-01-02"),
			string(p.PaymentMethod),
			deref(p.ReferenceNumber),
			string(p.Status),
		}
		if err := setRow(f, PaymentsSheet, i+2, row); err != nil {
			return nil, err
		}
	}
	if err := formatMoney(f, PaymentsSheet, "D", "D", len(payments)+1); err != nil {
		return nil, err
	}

	return write(f)
}

// PaymentRow is the CSV shape of a payment.
type PaymentRow struct {
	EmployeeCode    string `csv:"employee_code"`
	EmployeeName    string `csv:"employee_name"`
	Period          string `csv:"period"`
	Amount          string `csv:"amount"`
	PaymentDate     string `csv:"payment_date"`
	PaymentMethod   string `csv:"payment_method"`
	ReferenceNumber string `csv:"reference_number"`
	Status          string `csv:"status"`
}

// PaymentsCSV renders payments as CSV with a header line.
func PaymentsCSV(payments []payment.Payment) ([]byte, error) {
	rows := make([]PaymentRow, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, PaymentRow{
			EmployeeCode:    deref(p.EmployeeCode),
			EmployeeName:    deref(p.EmployeeName),
			Period:          periodOf(p),
			Amount:          p.Amount.StringFixed(2),
			PaymentDate:     p.PaymentDate.Format("2006-01-02"),
			PaymentMethod:   string(p.PaymentMethod),
			ReferenceNumber: deref(p.ReferenceNumber),
			Status:          string(p.Status),
		})
	}
	return gocsv.MarshalBytes(&rows)
}

func writeHeader(f *excelize.File, sheet string, header []interface{}) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", style); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 16)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func formatMoney(f *excelize.File, sheet, fromCol, toCol string, lastRow int) error {
	if lastRow < 2 {
		return nil
	}
	format := moneyFormat
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("%s2", fromCol), fmt.Sprintf("%s%d", toCol, lastRow), style)
}

func write(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func periodOf(p payment.Payment) string {
	if p.PeriodMonth == nil || p.PeriodYear == nil {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", *p.PeriodYear, *p.PeriodMonth)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
