package xlsexport

import (
	"testing"
	"time"

	"approval-routing-backend/models"
	dbmodels "approval-routing-backend/models/db"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportOverdueSteps(t *testing.T) {
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	i := impl{now: func() time.Time { return now }}

	t.Run(`ExportOverdueSteps check`, func(t *testing.T) {
		list := []dbmodels.StepInstance{
			{
				BaseModel:          dbmodels.BaseModel{ID: "s1", CreatedAt: now.Add(-30 * time.Hour)},
				RequestID:          "R-1",
				StepOrder:          2,
				AssignedApproverID: "u1",
				AssignedApprover:   &dbmodels.User{FirstName: "Иван", LastName: "Петров"},
				Status:             models.StepStatusPending,
				StepTemplate:       &dbmodels.StepTemplate{EscalationTimeout: &day, EscalationUserID: "boss"},
			},
			{
				BaseModel:          dbmodels.BaseModel{ID: "s2", CreatedAt: now.Add(-90 * time.Minute)},
				RequestID:          "R-2",
				StepOrder:          1,
				AssignedApproverID: "u2",
				Status:             models.StepStatusPending,
			},
		}
		buf, err := i.ExportOverdueSteps(list)
		require.Nil(t, err)
		require.NotZero(t, buf.Len())

		f, err := excelize.OpenReader(buf)
		require.Nil(t, err)
		defer f.Close()
		rows, err := f.GetRows(overdueSheet)
		require.Nil(t, err)
		require.Len(t, rows, 3)
		require.Equal(t, overdueHeaders, rows[0])
		require.Equal(t, "R-1", rows[1][0])
		require.Equal(t, "2", rows[1][1])
		require.Equal(t, "Иван Петров", rows[1][2])
		require.Equal(t, "30", rows[1][4])
		require.Equal(t, "24", rows[1][5])
		require.Equal(t, "boss", rows[1][6])
		require.Equal(t, "u2", rows[2][2])
		require.Equal(t, "1.5", rows[2][4])
	})

	t.Run(`empty list still has header`, func(t *testing.T) {
		buf, err := i.ExportOverdueSteps(nil)
		require.Nil(t, err)
		f, err := excelize.OpenReader(buf)
		require.Nil(t, err)
		defer f.Close()
		rows, err := f.GetRows(overdueSheet)
		require.Nil(t, err)
		require.Len(t, rows, 1)
	})
}
