package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	pointsRegex   = regexp.MustCompile(`(?:^|\s)\+(\S+)`)
	emailRegex    = regexp.MustCompile(`<([^>\s]+)>|(?:^|\s)([^\s@<>]+@[^\s@<>]+)`)
	assigneeRegex = regexp.MustCompile(`(?:^|\s)@([\p{L}0-9_.-]+)`)
	dueRegex      = regexp.MustCompile(`(?:^|\s)due:(\S+)`)
	atRegex       = regexp.MustCompile(`(?:^|\s)at:(\S+)`)
)

// ParsedTask represents a task parsed from the quick-add syntax
type ParsedTask struct {
	Title         string
	AssigneeName  string
	AssigneeEmail string
	Points        int
	DueDate       *time.Time
	DueTime       string
	Description   string // never parsed from the title; set by callers
	Errors        []string
}

// ParseTitle extracts metadata from a task title using natural syntax
// Syntax: "Task title +40 @Sarah <sarah@x.io> due:3d at:14:30"
//
//	+N            Points (5-100)
//	@name         Assignee display name (underscores become spaces)
//	<addr>/addr   Assignee e-mail
//	due:X         Due date (dd/mm/yyyy, yyyy-mm-dd, 3d, 2w, 5h)
//	at:HH:MM      Due time
func ParseTitle(input string) ParsedTask {
	return parseTitleAt(input, time.Now())
}

func parseTitleAt(input string, now time.Time) ParsedTask {
	result := ParsedTask{
		Title:  input,
		Errors: []string{},
	}

	// E-mail first so "@" inside an address is not read as an assignee
	if m := emailRegex.FindStringSubmatch(input); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		if addr, err := ParseEmail(raw); err == nil {
			result.AssigneeEmail = addr
		} else {
			result.Errors = append(result.Errors, "Invalid email '"+raw+"'")
		}
		input = strings.Replace(input, strings.TrimSpace(m[0]), " ", 1)
	}

	// Extract due date before points so "due:+3d" keeps its plus sign
	if m := dueRegex.FindStringSubmatch(input); m != nil {
		dueDate, err := parseDueDateAt(m[1], now)
		if err != nil {
			result.Errors = append(result.Errors, "Invalid due date '"+m[1]+"': "+err.Error())
		} else {
			result.DueDate = dueDate
		}
		input = dueRegex.ReplaceAllString(input, " ")
	}

	// Extract due time (at:14:30)
	if m := atRegex.FindStringSubmatch(input); m != nil {
		dueTime, err := ParseDueTime(m[1])
		if err != nil {
			result.Errors = append(result.Errors, "Invalid time '"+m[1]+"'. Use HH:MM")
		} else {
			result.DueTime = dueTime
		}
		input = atRegex.ReplaceAllString(input, " ")
	}

	// Extract points (+40)
	if m := pointsRegex.FindStringSubmatch(input); m != nil {
		points, err := strconv.Atoi(m[1])
		if err != nil || points < 5 || points > 100 {
			result.Errors = append(result.Errors, "Invalid points '"+m[1]+"'. Use a number from 5 to 100")
		} else {
			result.Points = points
		}
		input = pointsRegex.ReplaceAllString(input, " ")
	}

	// Extract assignee (@Sarah_Chen)
	if m := assigneeRegex.FindStringSubmatch(input); m != nil {
		result.AssigneeName = strings.ReplaceAll(m[1], "_", " ")
		input = assigneeRegex.ReplaceAllString(input, " ")
	}

	// Clean up the title (remove extra spaces)
	result.Title = strings.Join(strings.Fields(input), " ")

	return result
}
