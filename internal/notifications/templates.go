package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/angelmondragon/wedsite-backend/internal/changes"
	"github.com/angelmondragon/wedsite-backend/pkg/email"
	"github.com/angelmondragon/wedsite-backend/pkg/enums"
)

type templateData struct {
	CoupleNames  string
	EventDate    string
	VenueName    string
	Slug         string
	InvitationID string
	Link         string
	Comments     string
	Summary      changes.Summary
}

type emailTemplate struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

const summaryText = `{{define "summary"}}
{{- if .Summary.IsEmpty}}A few small touches were made; nothing you need to review line by line.
{{else}}
{{- with .Summary.TextChanges}}Updated details:
{{range .}}  - {{.Label}}: {{if .OldValue}}"{{.OldValue}}" -> {{end}}"{{.NewValue}}"
{{end}}{{end}}
{{- with .Summary.ArrayChanges}}Updated lists:
{{range .}}  {{.Label}}:
{{range .Added}}    + {{.Summary}}
{{end}}{{range .Removed}}    - {{.Summary}}
{{end}}{{end}}{{end}}
{{- with .Summary.ToggleChanges}}Sections:
{{range .}}  - {{.Label}}: {{if .NewValue}}now shown{{else}}now hidden{{end}}
{{end}}{{end}}
{{- end}}{{end}}`

const summaryHTML = `{{define "summary"}}
{{if .Summary.IsEmpty}}<p>A few small touches were made; nothing you need to review line by line.</p>
{{else}}
{{with .Summary.TextChanges}}<h3>Updated details</h3><ul>{{range .}}<li><strong>{{.Label}}</strong>: {{if .OldValue}}<s>{{.OldValue}}</s> &rarr; {{end}}{{.NewValue}}</li>{{end}}</ul>{{end}}
{{with .Summary.ArrayChanges}}<h3>Updated lists</h3>{{range .}}<p><strong>{{.Label}}</strong></p><ul>{{range .Added}}<li>Added: {{.Summary}}</li>{{end}}{{range .Removed}}<li>Removed: {{.Summary}}</li>{{end}}</ul>{{end}}{{end}}
{{with .Summary.ToggleChanges}}<h3>Sections</h3><ul>{{range .}}<li><strong>{{.Label}}</strong>: {{if .NewValue}}now shown{{else}}now hidden{{end}}</li>{{end}}</ul>{{end}}
{{end}}{{end}}`

var templates = map[enums.EmailKind]emailTemplate{
	enums.EmailKindApprovalRequest: mustTemplate(
		"approval_request",
		`Your wedding invitation is ready for review`,
		`Hi {{.CoupleNames}},

Your wedding invitation{{if .EventDate}} for {{.EventDate}}{{end}} is ready for your review.

Open your proof here:
{{.Link}}

From that page you can approve the invitation to publish it, or send your planner a note with any edits.
`,
		`<p>Hi {{.CoupleNames}},</p>
<p>Your wedding invitation{{if .EventDate}} for {{.EventDate}}{{end}} is ready for your review.</p>
<p><a href="{{.Link}}">Review your invitation</a></p>
<p>From that page you can approve the invitation to publish it, or send your planner a note with any edits.</p>`,
	),
	enums.EmailKindPublished: mustTemplate(
		"invitation_published",
		`Your wedding invitation is live`,
		`Hi {{.CoupleNames}},

Thank you for approving your invitation. It is now published and ready to share with your guests:
{{.Link}}
`,
		`<p>Hi {{.CoupleNames}},</p>
<p>Thank you for approving your invitation. It is now published and ready to share with your guests.</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>`,
	),
	enums.EmailKindEditRequest: mustTemplate(
		"edit_request",
		`Edit request from {{.CoupleNames}}`,
		`{{.CoupleNames}} asked for changes to their invitation.

Invitation: {{.Slug}} ({{.InvitationID}})
{{if .Link}}Proof: {{.Link}}
{{end}}
Comments:
{{.Comments}}
`,
		`<p>{{.CoupleNames}} asked for changes to their invitation.</p>
<p>Invitation: {{.Slug}} ({{.InvitationID}}){{if .Link}}<br><a href="{{.Link}}">Open proof</a>{{end}}</p>
<blockquote>{{.Comments}}</blockquote>`,
	),
	enums.EmailKindUpdatesReady: mustTemplate(
		"updates_ready",
		`Updates to your wedding invitation are ready`,
		`Hi {{.CoupleNames}},

Your planner has updated your invitation.

{{template "summary" .}}
Take a look:
{{.Link}}
`+summaryText,
		`<p>Hi {{.CoupleNames}},</p>
<p>Your planner has updated your invitation.</p>
{{template "summary" .}}
<p><a href="{{.Link}}">Take a look</a></p>`+summaryHTML,
	),
}

func mustTemplate(name, subject, text, html string) emailTemplate {
	return emailTemplate{
		subject: texttemplate.Must(texttemplate.New(name + ".subject").Parse(subject)),
		text:    texttemplate.Must(texttemplate.New(name + ".txt").Parse(text)),
		html:    htmltemplate.Must(htmltemplate.New(name + ".html").Parse(html)),
	}
}

func render(kind enums.EmailKind, data templateData) (email.Message, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return email.Message{}, fmt.Errorf("no template for email kind %q", kind)
	}

	var subject, text, html bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return email.Message{}, fmt.Errorf("render %s subject: %w", kind, err)
	}
	if err := tmpl.text.Execute(&text, data); err != nil {
		return email.Message{}, fmt.Errorf("render %s text: %w", kind, err)
	}
	if err := tmpl.html.Execute(&html, data); err != nil {
		return email.Message{}, fmt.Errorf("render %s html: %w", kind, err)
	}

	return email.Message{
		Subject:   strings.TrimSpace(subject.String()),
		PlainText: text.String(),
		HTML:      html.String(),
	}, nil
}
