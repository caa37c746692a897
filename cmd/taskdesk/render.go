package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mesh-intelligence/taskdesk/pkg/types"
)

const dateLayout = "2006-01-02"

const maskedPassword = "********"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderUsers(w io.Writer, users []types.User) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "TELEGRAM ID\tNAME\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.TelegramID, u.Name, u.Role)
	}
	return tw.Flush()
}

func renderProjects(w io.Writer, projects []types.Project) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tCREATED")
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Status, p.CreatedAt.Format(dateLayout))
	}
	return tw.Flush()
}

func renderTasks(w io.Writer, tasks []types.Task) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPROJECT\tDEADLINE\tASSIGNEES")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, t.Status, t.ProjectID, orDash(t.Deadline), orDash(strings.Join(t.Assignees, ",")))
	}
	return tw.Flush()
}

// renderTask prints one task with its comments.
func renderTask(w io.Writer, t types.Task) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", t.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", t.Title)
	fmt.Fprintf(tw, "Status:\t%s\n", t.Status)
	fmt.Fprintf(tw, "Project:\t%s\n", t.ProjectID)
	fmt.Fprintf(tw, "Creator:\t%s\n", t.CreatorID)
	fmt.Fprintf(tw, "Deadline:\t%s\n", orDash(t.Deadline))
	fmt.Fprintf(tw, "Assignees:\t%s\n", orDash(strings.Join(t.Assignees, ", ")))
	fmt.Fprintf(tw, "Created:\t%s\n", t.CreatedAt.Format(dateLayout))
	if err := tw.Flush(); err != nil {
		return err
	}
	if t.Description != "" {
		fmt.Fprintf(w, "\n%s\n", t.Description)
	}
	if len(t.Comments) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\nComments (%d):\n", len(t.Comments))
	for _, c := range t.Comments {
		fmt.Fprintf(w, "  [%s] %s: %s\n", c.CreatedAt.Format("2006-01-02 15:04"), c.AuthorID, c.Text)
	}
	return nil
}

// renderAccesses prints accesses with passwords masked unless reveal is set.
func renderAccesses(w io.Writer, accesses []types.Access, reveal bool) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tURL\tLOGIN\tPASSWORD\tCOMMENT")
	for _, a := range accesses {
		password := a.Password
		if !reveal && password != "" {
			password = maskedPassword
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", a.ID, a.URL, orDash(a.Login), orDash(password), orDash(a.Comment))
	}
	return tw.Flush()
}

func renderWhoami(w io.Writer, u *types.User) error {
	if u == nil {
		_, err := fmt.Fprintln(w, "not logged in")
		return err
	}
	_, err := fmt.Fprintf(w, "%s (%s), telegram id %s\n", u.Name, u.Role, u.TelegramID)
	return err
}
