package formatter

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/service"
)

// FormatVariance renders baseline slips per task.
func FormatVariance(entries []service.VarianceEntry) string {
	headers := []string{"TASK", "START", "END", "STATE"}
	rows := make([][]string, 0, len(entries))
	drifted := 0
	for _, e := range entries {
		if !e.HasBaseline {
			rows = append(rows, []string{e.Name, Dim("--"), Dim("--"), Dim("no baseline")})
			continue
		}
		state := StyleGreen.Render("on baseline")
		if e.Variance {
			state = StyleRed.Render("variance")
			drifted++
		}
		rows = append(rows, []string{e.Name, Slip(e.StartSlip), Slip(e.EndSlip), state})
	}
	summary := Dim(fmt.Sprintf("%d of %d tasks off baseline", drifted, len(entries)))
	return RenderTable(headers, rows) + "\n" + summary + "\n"
}

// FormatRevisionList renders revisions oldest first.
func FormatRevisionList(revs []*domain.Revision) string {
	headers := []string{"#", "ID", "CREATED", "KIND", "NOTE"}
	rows := make([][]string, 0, len(revs))
	for i, r := range revs {
		kind := StyleBlue.Render("snapshot")
		if r.Restorable() {
			kind += Dim(fmt.Sprintf(" (%d tasks)", len(r.Snapshot.Tasks)))
		} else {
			kind = Dim("note")
		}
		note := r.Note
		if note == "" {
			note = Dim("--")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			TruncID(r.ID),
			HumanTimestamp(r.CreatedAt),
			kind,
			note,
		})
	}
	return RenderBox("Revisions", RenderTable(headers, rows))
}
