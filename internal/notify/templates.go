package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/balkashynov/crewboard/internal/models"
)

var assignmentTmpl = template.Must(template.New("assignment").Parse(`<h2>You have a new task</h2>
<p>Hi {{if .AssigneeName}}{{.AssigneeName}}{{else}}there{{end}},</p>
<p><strong>{{.AssignerName}}</strong> assigned you <strong>{{.Title}}</strong> in {{.WorkspaceName}}.</p>
{{if .Description}}<p>{{.Description}}</p>{{end}}
<ul>
  <li>Points: {{.Points}}</li>
  {{if .Due}}<li>Due: {{.Due}}</li>{{end}}
</ul>
`))

type assignmentData struct {
	AssigneeName  string
	AssignerName  string
	WorkspaceName string
	Title         string
	Description   string
	Points        int
	Due           string
}

// AssignmentMessage builds the e-mail sent when a task is created with an assignee address
func AssignmentMessage(task *models.Task, assignerName, workspaceName string) (Message, error) {
	data := assignmentData{
		AssigneeName:  task.AssigneeName,
		AssignerName:  assignerName,
		WorkspaceName: workspaceName,
		Title:         task.Title,
		Description:   task.Description,
		Points:        task.Points,
	}
	if task.DueDate != nil {
		data.Due = task.DueDate.Format("02/01/2006")
		if task.DueTime != "" {
			data.Due += " " + task.DueTime
		}
	}

	var buf bytes.Buffer
	if err := assignmentTmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("failed to render assignment e-mail: %w", err)
	}

	return Message{
		To:      task.AssigneeEmail,
		Subject: fmt.Sprintf("New task assigned: %s", task.Title),
		HTML:    buf.String(),
	}, nil
}
