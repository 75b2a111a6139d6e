package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMonthlyReport regenerates the monthly invoice workbook.
	TaskMonthlyReport = "report:monthly_generate"
)

// MonthlyReportPayload selects the month to build. Zero values mean the
// previous calendar month.
type MonthlyReportPayload struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewMonthlyReportTask constructs an Asynq task for the given month.
func NewMonthlyReportTask(year, month int) (*asynq.Task, error) {
	if month < 0 || month > 12 || year < 0 {
		return nil, fmt.Errorf("jobs: invalid report period %d-%d", year, month)
	}
	data, err := json.Marshal(MonthlyReportPayload{Year: year, Month: month})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMonthlyReport, data), nil
}
