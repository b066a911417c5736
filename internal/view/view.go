// Package view holds the presentation logic of the terminal client: searching the fetched
// contact list, the dashboard numbers and the text rendering.
package view

import (
	"strings"
	"time"

	apimodel "gitlab.com/dirk.krummacker/mycontacts/pkg/model"
)

// RecentWindow is how far back a contact counts as recently added.
const RecentWindow = 7 * 24 * time.Hour

// DashboardSize is the number of contacts shown on the dashboard.
const DashboardSize = 5

// Filter returns the contacts whose name or email contains term, ignoring case, or whose phone
// contains term verbatim. An empty or blank term returns all contacts.
func Filter(contacts []apimodel.Contact, term string) []apimodel.Contact {
	term = strings.TrimSpace(term)
	if term == "" {
		return contacts
	}
	lower := strings.ToLower(term)
	result := make([]apimodel.Contact, 0, len(contacts))
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), lower) ||
			strings.Contains(strings.ToLower(c.Email), lower) ||
			strings.Contains(c.Phone, term) {
			result = append(result, c)
		}
	}
	return result
}

// Summary is what the dashboard shows.
type Summary struct {
	Total  int
	Recent int
	First  []apimodel.Contact
}

// Summarize counts all contacts and those created within RecentWindow before now, and picks
// the first DashboardSize contacts in list order.
func Summarize(contacts []apimodel.Contact, now time.Time) Summary {
	since := now.Add(-RecentWindow)
	s := Summary{Total: len(contacts)}
	for _, c := range contacts {
		if !c.CreatedAt.Before(since) {
			s.Recent++
		}
	}
	s.First = contacts[:min(len(contacts), DashboardSize)]
	return s
}
