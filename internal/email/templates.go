package email

import (
	"bytes"
	"html/template"
)

const subjectLeadAssigned = "A lead has been assigned to you"

type leadAssignedEmailData struct {
	AgentName      string
	LeadName       string
	AssignedByName string
	Notes          string
}

var leadAssignedTemplate = template.Must(template.New("lead_assigned").Parse(`
<html>
<body style="font-family: sans-serif; color: #1f2933;">
	<h2>New lead assignment</h2>
	<p>Hi {{.AgentName}},</p>
	<p>{{if .AssignedByName}}{{.AssignedByName}}{{else}}An administrator{{end}} assigned the lead
	<strong>{{.LeadName}}</strong> to you.</p>
	{{if .Notes}}<p>Notes: {{.Notes}}</p>{{end}}
	<p>Open your dashboard to follow up.</p>
</body>
</html>
`))

func renderLeadAssigned(data leadAssignedEmailData) (string, error) {
	var buf bytes.Buffer
	if err := leadAssignedTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
