package view

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	apimodel "gitlab.com/dirk.krummacker/mycontacts/pkg/model"
)

const timeLayout = "2006-01-02 15:04"

// RenderTable writes the contacts as an aligned table.
func RenderTable(w io.Writer, contacts []apimodel.Contact) error {
	if len(contacts) == 0 {
		_, err := fmt.Fprintln(w, "No contacts found.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tCREATED")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone, c.CreatedAt.Local().Format(timeLayout))
	}
	return tw.Flush()
}

// RenderContact writes the detail view of one contact.
func RenderContact(w io.Writer, c apimodel.Contact) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", c.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", c.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", c.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", c.Phone)
	fmt.Fprintf(tw, "Created:\t%s\n", c.CreatedAt.Local().Format(timeLayout))
	fmt.Fprintf(tw, "Updated:\t%s\n", c.UpdatedAt.Local().Format(timeLayout))
	return tw.Flush()
}

// RenderDashboard writes the greeting, the counters and the first contacts.
func RenderDashboard(w io.Writer, user apimodel.User, s Summary) error {
	fmt.Fprintf(w, "Welcome back, %s!\n\n", user.Username)
	fmt.Fprintf(w, "Total contacts:   %d\n", s.Total)
	fmt.Fprintf(w, "Added this week:  %d\n\n", s.Recent)
	if s.Total == 0 {
		_, err := fmt.Fprintln(w, "You have no contacts yet. Add one with: mycontacts add")
		return err
	}
	fmt.Fprintln(w, "Your contacts:")
	return RenderTable(w, s.First)
}

// RenderFieldErrors writes per-field validation messages in a stable order.
func RenderFieldErrors(w io.Writer, fields map[string]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %s\n", name, fields[name])
	}
}

// RenderLatency writes one row of the benchmark table.
func RenderLatency(w io.Writer, label string, values ...time.Duration) {
	fmt.Fprintf(w, "%10s", label)
	for _, v := range values {
		fmt.Fprintf(w, "%10d", v.Microseconds())
	}
	fmt.Fprintln(w)
}
