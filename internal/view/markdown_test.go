package view

import (
	"strings"
	"testing"
	"time"

	"github.com/idilsaglam/standup/internal/model"
)

func TestMarkdown(t *testing.T) {
	now := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.Local)
	since := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.Local)
	entries := []model.Entry{
		{ID: "1", Name: "Alice", Date: "2024-01-10", Yesterday: "Reviewed code", Today: "Write tests"},
		{ID: "2", Name: "Bob", Date: "2024-01-08", Yesterday: "Planning", Today: "Build", Blockers: "Waiting on CI"},
	}
	got := Markdown(entries, now, since)
	want := `# Standup report

_Since Wednesday, January 3, 2024_

## Today

### Alice

**Yesterday**

Reviewed code

**Today**

Write tests

## Monday, January 8

### Bob

**Yesterday**

Planning

**Today**

Build

**Blockers**

Waiting on CI

`
	if got != want {
		t.Fatalf("Markdown mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestMarkdownEmpty(t *testing.T) {
	got := Markdown(nil, time.Now(), time.Time{})
	if !strings.Contains(got, "_No standup entries yet._") {
		t.Fatalf("unexpected empty report: %q", got)
	}
	if strings.Contains(got, "Since") {
		t.Fatalf("zero since should be omitted: %q", got)
	}
}

func TestMarkdownEscapesUserText(t *testing.T) {
	now := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.Local)
	entries := []model.Entry{
		{ID: "1", Name: "# x", Date: "2024-01-10", Yesterday: "- item\n1. two\n    indented", Today: "use `go test` on <b>*all*</b>"},
		{ID: "2", Name: "**", Date: "2024-01-10", Yesterday: "y", Today: "t"},
	}
	got := Markdown(entries, now, time.Time{})

	for _, want := range []string{
		"### \\# x\n",
		"### \\*\\*\n",
		"\\- item\n1\\. two\nindented\n",
		"use \\`go test\\` on \\<b\\>\\*all\\*\\</b\\>\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
	for _, line := range strings.Split(got, "\n") {
		if line == "# x" || line == "- item" || strings.HasPrefix(line, "    ") {
			t.Fatalf("user text escaped into markdown structure: %q", line)
		}
	}
}
