// Package form holds the create-entry form state and its validation rules.
package form

import (
	"strings"
	"time"

	"github.com/idilsaglam/standup/internal/model"
)

// Field names a form input.
type Field string

const (
	FieldName      Field = "name"
	FieldDate      Field = "date"
	FieldYesterday Field = "yesterday"
	FieldToday     Field = "today"
	FieldBlockers  Field = "blockers"
)

// Rules tune which inputs are mandatory. Name, date and today always are.
type Rules struct {
	RequireYesterday bool
}

// DefaultRules requires every field except blockers.
func DefaultRules() Rules { return Rules{RequireYesterday: true} }

// Fields is the raw, untrimmed form input.
type Fields struct {
	Name      string
	Date      string
	Yesterday string
	Today     string
	Blockers  string
}

// New returns empty fields with the date set to now's local day.
func New(now time.Time) Fields {
	return Fields{Date: model.FormatDate(now)}
}

// Entry trims every text field into a NewEntry.
func (f Fields) Entry() model.NewEntry {
	return model.NewEntry{
		Name:      strings.TrimSpace(f.Name),
		Date:      strings.TrimSpace(f.Date),
		Yesterday: strings.TrimSpace(f.Yesterday),
		Today:     strings.TrimSpace(f.Today),
		Blockers:  strings.TrimSpace(f.Blockers),
	}
}

// Reset clears everything but the date.
func (f Fields) Reset() Fields {
	return Fields{Date: f.Date}
}

// Problem is one failed check.
type Problem struct {
	Field   Field
	Message string
}

// Problems lists failed checks in form order.
type Problems []Problem

func (p Problems) OK() bool { return len(p) == 0 }

// For returns the message for field, or "".
func (p Problems) For(field Field) string {
	for _, pr := range p {
		if pr.Field == field {
			return pr.Message
		}
	}
	return ""
}

func (p Problems) Error() string {
	msgs := make([]string, 0, len(p))
	for _, pr := range p {
		msgs = append(msgs, pr.Message)
	}
	return strings.Join(msgs, "; ")
}

// Validate checks f against rules. Dates after now's local day are rejected.
func Validate(f Fields, rules Rules, now time.Time) Problems {
	var out Problems
	required := func(field Field, value, msg string) {
		if strings.TrimSpace(value) == "" {
			out = append(out, Problem{Field: field, Message: msg})
		}
	}

	required(FieldName, f.Name, "Name is required")

	date := strings.TrimSpace(f.Date)
	if date == "" {
		out = append(out, Problem{Field: FieldDate, Message: "Date is required"})
	} else if d, err := model.ParseDate(date); err != nil {
		out = append(out, Problem{Field: FieldDate, Message: "Date must be YYYY-MM-DD"})
	} else if d.After(model.Today(now)) {
		out = append(out, Problem{Field: FieldDate, Message: "Date cannot be in the future"})
	}

	if rules.RequireYesterday {
		required(FieldYesterday, f.Yesterday, "Yesterday's work is required")
	}
	required(FieldToday, f.Today, "Today's plan is required")
	return out
}
