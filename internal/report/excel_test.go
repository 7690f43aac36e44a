package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/models"
	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/revenue"
)

func TestExcel(t *testing.T) {
	entries := []revenue.Entry{
		{
			Subscription: &models.Subscription{
				ID:     "sub_1",
				Status: models.StatusActive,
				Plan:   &models.Plan{ID: "pro", Name: "Pro", Amount: 4900, Interval: "month", IntervalCount: 1},
			},
			Customer: &models.Customer{ID: "cus_1", Email: "jane@example.com"},
		},
		{
			Subscription: &models.Subscription{
				ID:     "sub_2",
				Status: models.StatusActive,
				Plan:   &models.Plan{ID: "basic", Name: "Basic", Amount: 12000, Interval: "year", IntervalCount: 1},
			},
			Customer: &models.Customer{ID: "cus_2", Email: "joe@example.com"},
		},
	}

	buf, err := Excel(entries, 0)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 2 subscriptions + total

	assert.Equal(t, "customer_email", rows[0][1])
	assert.Equal(t, "jane@example.com", rows[1][1])
	assert.Equal(t, "49", rows[1][5])
	assert.Equal(t, "10", rows[2][5])
	assert.Equal(t, "total_mrr", rows[3][4])
	assert.Equal(t, "59", rows[3][5])
}

func TestExcelFailsOnUnknownInterval(t *testing.T) {
	entries := []revenue.Entry{{
		Subscription: &models.Subscription{
			ID:     "sub_1",
			Status: models.StatusActive,
			Plan:   &models.Plan{ID: "odd", Name: "Odd", Amount: 1000, Interval: "fortnight", IntervalCount: 1},
		},
		Customer: &models.Customer{ID: "cus_1"},
	}}

	_, err := Excel(entries, 0)
	require.Error(t, err)
}
