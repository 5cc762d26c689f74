package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/koek1/budget-app/internal/models"
)

// ErrInvalidReportPeriod is returned when a report's date range or type cannot be used.
var ErrInvalidReportPeriod = errors.New("invalid report period")

const (
	reportSheet     = "Financial Report"
	reportDateFmt   = "2006-01-02"
	summaryPreview  = 10
	headerFillColor = "E6E6FA"
	netFillColor    = "F0F8FF"
)

// ReportPeriod selects the transactions covered by a report. Both bounds are inclusive.
type ReportPeriod struct {
	Start time.Time
	End   time.Time
	Type  string // "all", "income" or "expense"
}

// DailyAmount is the total for one calendar day.
type DailyAmount struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// ReportSummary is the preview shown before exporting.
type ReportSummary struct {
	TotalTransactions int                   `json:"totalTransactions"`
	TotalIncome       float64               `json:"totalIncome"`
	TotalExpenses     float64               `json:"totalExpenses"`
	NetTotal          float64               `json:"netTotal"`
	DailyIncome       []DailyAmount         `json:"dailyIncome"`
	Transactions      []*models.Transaction `json:"transactions"`
}

func parseReportDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", ErrInvalidReportPeriod, field)
	}
	t, err := models.ParseFlexibleTime(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrInvalidReportPeriod, field, err)
	}
	return t, nil
}

// ParseReportPeriod validates a report request. The end date covers its whole day (UTC).
func ParseReportPeriod(req models.ReportRequest) (ReportPeriod, error) {
	start, err := parseReportDate("startDate", req.StartDate)
	if err != nil {
		return ReportPeriod{}, err
	}
	end, err := parseReportDate("endDate", req.EndDate)
	if err != nil {
		return ReportPeriod{}, err
	}
	end = end.Truncate(24*time.Hour).Add(24*time.Hour - time.Nanosecond)
	if end.Before(start) {
		return ReportPeriod{}, fmt.Errorf("%w: endDate is before startDate", ErrInvalidReportPeriod)
	}

	kind := strings.ToLower(strings.TrimSpace(req.ReportType))
	if kind == "" {
		kind = models.ReportTypeAll
	}
	if kind != models.ReportTypeAll && !models.IsValidTransactionType(kind) {
		return ReportPeriod{}, fmt.Errorf("%w: unknown reportType %q", ErrInvalidReportPeriod, req.ReportType)
	}
	return ReportPeriod{Start: start, End: end, Type: kind}, nil
}

// totals holds exact sums of a report's amounts.
type totals struct {
	income   decimal.Decimal
	expenses decimal.Decimal
}

func (t totals) net() decimal.Decimal { return t.income.Sub(t.expenses) }

func sumTransactions(transactions []*models.Transaction) totals {
	var t totals
	for _, tx := range transactions {
		amount := decimal.NewFromFloat(tx.Amount)
		switch tx.Type {
		case models.TransactionTypeIncome:
			t.income = t.income.Add(amount)
		case models.TransactionTypeExpense:
			t.expenses = t.expenses.Add(amount)
		}
	}
	return t
}

// exportService implements the ExportService interface.
type exportService struct {
	transactions TransactionService
	now          func() time.Time
}

// NewExportService creates a new ExportService instance.
func NewExportService(transactions TransactionService) ExportService {
	return &exportService{transactions: transactions, now: time.Now}
}

func (s *exportService) Summary(ctx context.Context, userID string, period ReportPeriod) (*ReportSummary, error) {
	transactions, err := s.transactions.ListBetween(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	t := sumTransactions(transactions)

	// Transactions are sorted by date, so days come out in order.
	var days []string
	sums := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Type != models.TransactionTypeIncome {
			continue
		}
		day := tx.Date.UTC().Format(reportDateFmt)
		if _, ok := sums[day]; !ok {
			days = append(days, day)
		}
		sums[day] = sums[day].Add(decimal.NewFromFloat(tx.Amount))
	}
	daily := make([]DailyAmount, 0, len(days))
	for _, day := range days {
		daily = append(daily, DailyAmount{Date: day, Amount: sums[day].InexactFloat64()})
	}

	preview := transactions
	if len(preview) > summaryPreview {
		preview = preview[:summaryPreview]
	}

	return &ReportSummary{
		TotalTransactions: len(transactions),
		TotalIncome:       t.income.InexactFloat64(),
		TotalExpenses:     t.expenses.InexactFloat64(),
		NetTotal:          t.net().InexactFloat64(),
		DailyIncome:       daily,
		Transactions:      preview,
	}, nil
}

func (s *exportService) Workbook(ctx context.Context, userID string, period ReportPeriod) ([]byte, error) {
	transactions, err := s.transactions.ListBetween(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: "Budget App",
		Created: s.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("failed to set workbook properties: %w", err)
	}

	for col, width := range map[string]float64{"A": 15, "B": 10, "C": 20, "D": 30, "E": 15} {
		if err := f.SetColWidth(reportSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
	})
	if err != nil {
		return nil, err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	netStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{netFillColor}},
	})
	if err != nil {
		return nil, err
	}

	row := 1
	writeRow := func(values []interface{}, style int) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(reportSheet, cell, &values); err != nil {
			return err
		}
		if style != 0 {
			last, _ := excelize.CoordinatesToCellName(5, row)
			if err := f.SetCellStyle(reportSheet, cell, last, style); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if err := writeRow([]interface{}{"Date", "Type", "Category", "Description", "Amount"}, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, tx := range transactions {
		if err := writeRow([]interface{}{
			tx.Date.UTC().Format(reportDateFmt),
			capitalize(tx.Type),
			tx.Category,
			tx.Description,
			tx.Amount,
		}, 0); err != nil {
			return nil, fmt.Errorf("failed to write transaction %s: %w", tx.ID, err)
		}
	}

	t := sumTransactions(transactions)
	row++ // blank separator
	summary := []struct {
		values []interface{}
		style  int
	}{
		{[]interface{}{"SUMMARY", "", "", "", ""}, boldStyle},
		{[]interface{}{"Total Income", "", "", "", t.income.InexactFloat64()}, boldStyle},
		{[]interface{}{"Total Expenses", "", "", "", t.expenses.InexactFloat64()}, boldStyle},
		{[]interface{}{"Net Total", "", "", "", t.net().InexactFloat64()}, netStyle},
	}
	for _, line := range summary {
		if err := writeRow(line.values, line.style); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
