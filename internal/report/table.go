package report

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"
	"github.com/specialistvlad/burstmatrix/internal/matrix"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 2, 0, 0)
	cellStyle   = lipgloss.NewStyle().Padding(0, 2, 0, 0)
)

// PlanTable renders the expanded jobs of a workflow, one row per job.
func PlanTable(jobs []matrix.Job) string {
	rows := lo.Map(jobs, func(j matrix.Job, _ int) []string {
		tests := "yes"
		if !j.RunsTests() {
			tests = "skip"
		}
		return []string{
			strconv.Itoa(j.Index),
			j.Name,
			j.Platform.OSName,
			j.Platform.Runner,
			j.Platform.Target,
			string(j.Toolchain),
			tests,
		}
	})
	return render([]string{"#", "JOB", "OS", "RUNNER", "TARGET", "TOOLCHAIN", "TESTS"}, rows)
}

// RunTable renders the outcome of every job of a run.
func RunTable(s *Summary) string {
	rows := lo.Map(s.Jobs, func(j JobReport, _ int) []string {
		return []string{
			j.Name,
			j.Status,
			stepStatus(j, "build"),
			stepStatus(j, "test"),
			(time.Duration(j.DurationMS) * time.Millisecond).String(),
		}
	})
	return render([]string{"JOB", "STATUS", "BUILD", "TEST", "DURATION"}, rows)
}

func stepStatus(j JobReport, name string) string {
	step, ok := lo.Find(j.Steps, func(s StepReport) bool { return s.Name == name })
	if !ok {
		return "-"
	}
	return step.Status
}

func render(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}
