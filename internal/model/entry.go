package model

import "time"

// DateLayout is the on-disk date format (ISO 8601 calendar date).
const DateLayout = "2006-01-02"

// Entry is one recorded standup update.
// Entries are created and deleted, never edited.
type Entry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Yesterday string `json:"yesterday"`
	Today     string `json:"today"`
	Blockers  string `json:"blockers"`
}

// NewEntry is an Entry before an id has been assigned.
type NewEntry struct {
	Name      string `json:"name"`
	Date      string `json:"date"`
	Yesterday string `json:"yesterday"`
	Today     string `json:"today"`
	Blockers  string `json:"blockers"`
}

// WithID turns n into a stored Entry.
func (n NewEntry) WithID(id string) Entry {
	return Entry{
		ID:        id,
		Name:      n.Name,
		Date:      n.Date,
		Yesterday: n.Yesterday,
		Today:     n.Today,
		Blockers:  n.Blockers,
	}
}

// Today returns local midnight of the day containing now.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// ParseDate parses s as a calendar date at local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}
