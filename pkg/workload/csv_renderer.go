package workload

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	Render(report Report) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

// Render writes one block of rows per user: daily totals, load bands, projects with
// their tasks, the invisible summary and the overdue work.
func (c *CsvRendererImpl) Render(report Report) (string, error) {
	table := report.Table
	dates := table.Span.Days()

	header := make([]string, 0, len(dates)+4)
	header = append(header, "User", "Project", "Task")
	for _, date := range dates {
		header = append(header, date.Format("02/01/2006"))
	}
	header = append(header, "SUM")

	data := [][]string{header}
	for _, uw := range table.Users {
		name := uw.User.DisplayName
		if name == "" {
			name = uw.User.Username
		}
		data = append(data, totalsRow(name, "", "Total", uw.Total))

		loads := uw.Loads(report.Thresholds)
		loadRow := make([]string, 0, len(loads)+4)
		loadRow = append(loadRow, name, "", "Load")
		for _, l := range loads {
			loadRow = append(loadRow, string(l.Band))
		}
		data = append(data, append(loadRow, ""))

		for _, pw := range uw.Projects {
			data = append(data, totalsRow(name, pw.Project.Name, "", pw.Total))
			for _, tw := range pw.Tasks {
				data = append(data, taskRow(name, pw.Project.Name, tw))
			}
		}
		if sumHours(uw.Invisible) > 0 {
			data = append(data, totalsRow(name, "", "Invisible", uw.Invisible))
		}
		if uw.OverdueCount > 0 {
			overdueRow := make([]string, 0, len(dates)+4)
			overdueRow = append(overdueRow, name, "", fmt.Sprintf("Overdue (%d)", uw.OverdueCount))
			for range dates {
				overdueRow = append(overdueRow, "")
			}
			data = append(data, append(overdueRow, hoursToString(uw.OverdueHours)))
		}
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func totalsRow(userName, projectName, label string, totals []DayTotal) []string {
	row := make([]string, 0, len(totals)+4)
	row = append(row, userName, projectName, label)
	for _, total := range totals {
		row = append(row, hoursToString(total.Hours))
	}
	return append(row, hoursToString(sumHours(totals)))
}

func taskRow(userName, projectName string, tw *TaskWorkload) []string {
	row := make([]string, 0, len(tw.Schedule)+4)
	row = append(row, userName, projectName, fmt.Sprintf("#%d %s", tw.Task.Id, tw.Task.Subject))
	for _, d := range tw.Schedule {
		switch {
		case d.NoEstimate:
			row = append(row, "?")
		case !d.Active && d.Hours == 0:
			row = append(row, "")
		default:
			row = append(row, hoursToString(d.Hours))
		}
	}
	return append(row, hoursToString(tw.Schedule.TotalHours()))
}

func sumHours(totals []DayTotal) float64 {
	sum := 0.0
	for _, total := range totals {
		sum += total.Hours
	}
	return sum
}

func hoursToString(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 2, 64)
}
