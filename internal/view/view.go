// Package view turns stored entries into display groups with relative
// date headings.
package view

import (
	"sort"
	"time"

	"github.com/idilsaglam/standup/internal/model"
)

// Empty-state copy shown when there is nothing to list.
const (
	EmptyTitle   = "No standup entries yet"
	EmptyMessage = "Add your first standup entry using the form to get started."
)

// Group is every entry sharing one date string.
type Group struct {
	Date    string
	Entries []model.Entry
}

// GroupByDate buckets entries by exact date string. Groups come back newest
// first; entries keep their input order within a group.
func GroupByDate(entries []model.Entry) []Group {
	idx := make(map[string]int)
	var groups []Group
	for _, e := range entries {
		i, ok := idx[e.Date]
		if !ok {
			i = len(groups)
			idx[e.Date] = i
			groups = append(groups, Group{Date: e.Date})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	return groups
}

// Heading renders date relative to now: "Today", "Yesterday" or
// "Wednesday, January 10". Unparseable dates come back unchanged.
func Heading(date string, now time.Time) string {
	d, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	today := model.Today(now)
	switch {
	case d.Equal(today):
		return "Today"
	case d.Equal(today.AddDate(0, 0, -1)):
		return "Yesterday"
	}
	return d.Format("Monday, January 2")
}

// CardDate is the short form shown on each entry card.
func CardDate(date string) string {
	d, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	return d.Format("Monday, Jan 2")
}
