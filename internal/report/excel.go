package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/revenue"
)

// Excel renders a per-subscription MRR audit as an xlsx workbook: one
// row per subscription with its normalized monthly amount, and a total
// row computed over the unrounded figures.
func Excel(entries []revenue.Entry, feeRate float64) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"customer_id",
		"customer_email",
		"subscription_id",
		"status",
		"plan",
		"monthly_amount",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("report: write header: %w", err)
	}

	row := 2
	for _, e := range entries {
		amount, err := revenue.Monthly(e, feeRate)
		if err != nil {
			return nil, err
		}

		planName := ""
		if e.Subscription.Plan != nil {
			planName = e.Subscription.Plan.Name
		}
		excelRow := []interface{}{
			e.Customer.ID,
			e.Customer.Email,
			e.Subscription.ID,
			e.Subscription.Status,
			planName,
			revenue.RoundCents(amount),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("report: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("report: write row: %w", err)
		}
		row++
	}

	total, err := revenue.SumMonthly(entries, feeRate)
	if err != nil {
		return nil, err
	}
	totalRow := []interface{}{"", "", "", "", "total_mrr", total}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, fmt.Errorf("report: cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &totalRow); err != nil {
		return nil, fmt.Errorf("report: write total row: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("report: write workbook: %w", err)
	}
	return buf, nil
}
