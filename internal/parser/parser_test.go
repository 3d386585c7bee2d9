package parser

import (
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func TestParseTitleFull(t *testing.T) {
	p := parseTitleAt("Write spec +40 @Sarah_Chen <sarah@Example.com> due:3d at:9:05", fixedNow)

	if len(p.Errors) != 0 {
		t.Fatalf("Unexpected errors: %v", p.Errors)
	}
	if p.Title != "Write spec" {
		t.Errorf("Expected title 'Write spec', got %q", p.Title)
	}
	if p.Points != 40 {
		t.Errorf("Expected 40 points, got %d", p.Points)
	}
	if p.AssigneeName != "Sarah Chen" {
		t.Errorf("Expected assignee 'Sarah Chen', got %q", p.AssigneeName)
	}
	if p.AssigneeEmail != "sarah@example.com" {
		t.Errorf("Expected email sarah@example.com, got %q", p.AssigneeEmail)
	}
	if p.DueTime != "09:05" {
		t.Errorf("Expected due time 09:05, got %q", p.DueTime)
	}
	want := time.Date(2025, 6, 13, 23, 59, 59, 0, time.UTC)
	if p.DueDate == nil || !p.DueDate.Equal(want) {
		t.Errorf("Expected due date %v, got %v", want, p.DueDate)
	}
}

func TestParseTitleBareEmail(t *testing.T) {
	p := parseTitleAt("Fix login bob@example.com", fixedNow)
	if p.AssigneeEmail != "bob@example.com" {
		t.Errorf("Expected bare email to be picked up, got %q", p.AssigneeEmail)
	}
	if p.AssigneeName != "" {
		t.Errorf("Email should not produce an assignee name, got %q", p.AssigneeName)
	}
	if p.Title != "Fix login" {
		t.Errorf("Expected title 'Fix login', got %q", p.Title)
	}
}

func TestParseTitlePlain(t *testing.T) {
	p := parseTitleAt("  Update   C++ docs  ", fixedNow)
	if p.Title != "Update C++ docs" {
		t.Errorf("Expected cleaned title, got %q", p.Title)
	}
	if p.Points != 0 || p.DueDate != nil || p.AssigneeEmail != "" {
		t.Errorf("Expected no metadata, got %+v", p)
	}
}

func TestParseTitleErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Task +500", "Invalid points"},
		{"Task +lots", "Invalid points"},
		{"Task due:someday", "Invalid due date"},
		{"Task at:25:00", "Invalid time"},
		{"Task <not-an-email>", "Invalid email"},
	}

	for _, tt := range tests {
		p := parseTitleAt(tt.input, fixedNow)
		if len(p.Errors) == 0 {
			t.Errorf("%q: expected an error", tt.input)
			continue
		}
		if !strings.Contains(strings.Join(p.Errors, ";"), tt.want) {
			t.Errorf("%q: expected error containing %q, got %v", tt.input, tt.want, p.Errors)
		}
		if p.Title != "Task" {
			t.Errorf("%q: expected title 'Task', got %q", tt.input, p.Title)
		}
	}
}

func TestParseDueDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"15/12/2025", time.Date(2025, 12, 15, 23, 59, 59, 0, time.UTC)},
		{"2025-12-15", time.Date(2025, 12, 15, 23, 59, 59, 0, time.UTC)},
		{"1 day", time.Date(2025, 6, 11, 23, 59, 59, 0, time.UTC)},
		{"+2w", time.Date(2025, 6, 24, 23, 59, 59, 0, time.UTC)},
		{"5h", fixedNow.Add(5 * time.Hour)},
	}

	for _, tt := range tests {
		got, err := parseDueDateAt(tt.input, fixedNow)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tt.input, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.input, tt.want, got)
		}
	}

	for _, bad := range []string{"31/02/2025", "01/01/1999", "400 days", "tomorrow"} {
		if _, err := parseDueDateAt(bad, fixedNow); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}

	if got, err := parseDueDateAt("", fixedNow); got != nil || err != nil {
		t.Errorf("Empty input should yield nil, nil; got %v, %v", got, err)
	}
}

func TestParseDueTime(t *testing.T) {
	if got, err := ParseDueTime("7:45"); err != nil || got != "07:45" {
		t.Errorf("Expected 07:45, got %q (%v)", got, err)
	}
	for _, bad := range []string{"24:00", "12:60", "noon", "1230"} {
		if _, err := ParseDueTime(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestParseEmail(t *testing.T) {
	got, err := ParseEmail("Sarah Chen <Sarah@Example.COM>")
	if err != nil {
		t.Fatalf("ParseEmail failed: %v", err)
	}
	if got != "Sarah@example.com" {
		t.Errorf("Expected local part kept and domain lowercased, got %q", got)
	}

	for _, bad := range []string{"", "sarah", "sarah@", "@example.com", "sarah@localhost"} {
		if IsEmail(bad) {
			t.Errorf("%q should not be accepted", bad)
		}
	}
}

func TestFormatDueDate(t *testing.T) {
	day := func(offset int) *time.Time {
		d := fixedNow.AddDate(0, 0, offset)
		return &d
	}

	tests := []struct {
		due  *time.Time
		want string
	}{
		{nil, ""},
		{day(-1), "OVERDUE"},
		{day(0), "Due today"},
		{day(1), "Due tomorrow"},
		{day(3), "in 3 days"},
		{day(30), "Due 10/07/2025"},
	}
	for _, tt := range tests {
		got := formatDueDateAt(tt.due, fixedNow)
		if !strings.Contains(got, tt.want) {
			t.Errorf("Expected %q in %q", tt.want, got)
		}
	}
}
