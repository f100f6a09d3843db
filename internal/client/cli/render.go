package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func renderWorkspaces(w io.Writer, tenants []models.Tenant, current *models.Tenant) {
	if len(tenants) == 0 {
		fmt.Fprintln(w, "No workspaces yet. Create one with 'newworkspace'.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "\t#\tNAME\tPLAN\tROLE")
	for i, t := range tenants {
		mark := ""
		if current != nil && current.ID == t.ID {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", mark, i+1, t.Name, planLabel(t.Plan), orDash(string(t.UserRole)))
	}
	tw.Flush()
}

func renderNotes(w io.Writer, notes []models.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes yet. Create your first note with 'addnote'.")
		return
	}
	for i, n := range notes {
		fmt.Fprintf(w, "[%d] %s\n", i+1, n.Title)
		author := n.CreatedBy.Display()
		if author == "" {
			author = "unknown"
		}
		fmt.Fprintf(w, "    by %s%s\n", author, formatDate(n.CreatedAt))
		for _, line := range strings.Split(n.Content, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
		fmt.Fprintln(w)
	}
}

func renderMembers(w io.Writer, members []models.Membership, selfID string) {
	if len(members) == 0 {
		fmt.Fprintln(w, "No members found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tMEMBER\tEMAIL\tROLE")
	for i, m := range members {
		name := m.UserID.Display()
		email := ""
		if u := m.UserID.User; u != nil {
			email = u.Email
		}
		if m.UserID.ID == selfID {
			name += " (you)"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, name, orDash(email), m.Role)
	}
	tw.Flush()
}

func planLabel(p models.Plan) string {
	if p == models.PlanPro {
		return "Pro"
	}
	return "Free"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return " on " + t.Local().Format("Jan 2, 2006")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// pickIndex parses a 1-based position from args.
func pickIndex(args []string, n int, what string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: %s <n>", what)
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("no %s #%s", what, args[0])
	}
	return i - 1, nil
}
