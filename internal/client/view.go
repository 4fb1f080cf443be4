package client

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/MKhiriev/mint-sync/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	columnGutter = 2
)

// RenderSyncReports prints one line per synced entity type.
func RenderSyncReports(w io.Writer, reports []models.ClientSyncReport) {
	fmt.Fprintln(w, titleStyle.Render("Sync"))
	for _, r := range reports {
		line := fmt.Sprintf("%-12s sent %d, received %d, cursor %d", r.EntityType, r.Sent, r.Received, r.Cursor)
		if r.Superseded > 0 {
			line += mutedStyle.Render(fmt.Sprintf(" (%d folded)", r.Superseded))
		}
		if r.Conflicts > 0 {
			fmt.Fprintln(w, warnStyle.Render("! ")+line+warnStyle.Render(fmt.Sprintf(", %d conflicts", r.Conflicts)))
			continue
		}
		fmt.Fprintln(w, okStyle.Render("✓ ")+line)
	}
}

// RenderError prints msg in the error style.
func RenderError(w io.Writer, msg string) {
	fmt.Fprintln(w, errorStyle.Render("error: ")+msg)
}

// RenderStatus prints the device id, change counts and cursors.
func RenderStatus(w io.Writer, status models.ClientStatus) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("device"), status.DeviceID)

	statuses := make([]string, 0, len(status.Counts))
	for s := range status.Counts {
		statuses = append(statuses, s)
	}
	slices.Sort(statuses)
	for _, s := range statuses {
		fmt.Fprintf(&b, "%-11s %d\n", strings.ToLower(s), status.Counts[s])
	}

	for _, entityType := range models.EntityTypes {
		fmt.Fprintf(&b, "%-11s cursor %d", entityType, status.Cursors[entityType])
		if entityType != models.EntityTypes[len(models.EntityTypes)-1] {
			b.WriteByte('\n')
		}
	}

	fmt.Fprintln(w, boxStyle.Render(b.String()))
}

// RenderEntities prints entity ids with their payloads; deleted entities
// are shown faint.
func RenderEntities(w io.Writer, entities []models.EntityState) {
	if len(entities) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no entities"))
		return
	}

	idWidth := lipgloss.Width("ID")
	for _, e := range entities {
		idWidth = max(idWidth, lipgloss.Width(e.EntityID))
	}

	fmt.Fprintln(w, titleStyle.Render(pad("ID", idWidth+columnGutter)+"PAYLOAD"))
	for _, e := range entities {
		line := pad(e.EntityID, idWidth+columnGutter) + string(e.Payload)
		if e.Deleted {
			line = mutedStyle.Render(pad(e.EntityID, idWidth+columnGutter) + "deleted")
		}
		fmt.Fprintln(w, line)
	}
}

// RenderConflicts prints each pending conflict with both sides.
func RenderConflicts(w io.Writer, list models.ConflictList) {
	if list.Length == 0 {
		fmt.Fprintln(w, okStyle.Render("no pending conflicts"))
		return
	}

	for _, c := range list.Conflicts {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("conflict"), c.ID)
		fmt.Fprintf(&b, "%s/%s\n", c.EntityType, c.EntityID)
		fmt.Fprintf(&b, "client  %s %d %s\n", c.ClientChange.Operation, c.ClientChange.Timestamp, c.ClientChange.Payload)
		fmt.Fprintf(&b, "server  %s %d %s", c.ServerChange.Operation, c.ServerChange.Timestamp, c.ServerChange.Payload)
		fmt.Fprintln(w, boxStyle.Render(b.String()))
	}
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
