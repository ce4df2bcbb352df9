package export

import (
	"bytes"
	"html/template"
	"strings"
	"time"
)

var workspaceTemplate *template.Template

func init() {
	funcMap := template.FuncMap{
		"lower": strings.ToLower,
		"formatDate": func(t time.Time, layout string) string {
			return t.Format(layout)
		},
	}
	workspaceTemplate = template.Must(template.New("workspace").Funcs(funcMap).Parse(workspaceHTMLTemplate))
}

// TemplateData holds data for workspace template rendering
type TemplateData struct {
	ProjectTitle     string
	ClientName       string
	ProfessionalName string
	GeneratedAt      time.Time
	IncludePrice     bool
	Sections         []TemplateSection
}

// TemplateSection holds section data for the template
type TemplateSection struct {
	Title       string
	Description string
	Attachments []string
	Items       []TemplateItem
}

// TemplateItem holds item data for the template
type TemplateItem struct {
	Title       string
	Description string
	Type        string
	StoreName   string
	Price       string
	Reactions   []string
	Comments    []TemplateComment
}

// TemplateComment holds comment data for the template
type TemplateComment struct {
	Author  string
	Content string
}

// RenderWorkspaceHTML renders the workspace template with provided data
func RenderWorkspaceHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := workspaceTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const workspaceHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.ProjectTitle}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; color: #222; }
    h1 { border-bottom: 2px solid #2d7d46; padding-bottom: 0.5rem; }
    h2 { margin-top: 2rem; color: #2d7d46; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    .section-desc { color: #444; margin-bottom: 1rem; }
    .item { border: 1px solid #ddd; border-radius: 4px; padding: 1rem; margin: 0.75rem 0; page-break-inside: avoid; }
    .item-head { font-weight: bold; }
    .item-type { color: #888; font-size: 0.85em; text-transform: uppercase; }
    .price { float: right; font-weight: bold; }
    .reactions { font-size: 0.9em; color: #666; margin-top: 0.5rem; }
    .comment { background: #f5f7f6; padding: 0.5rem 0.75rem; margin: 0.5rem 0; border-left: 3px solid #2d7d46; }
    .attachments { font-size: 0.9em; color: #666; }
  </style>
</head>
<body>
  <h1>{{.ProjectTitle}}</h1>
  <div class="meta">
    {{if .ProfessionalName}}Professional: {{.ProfessionalName}}{{end}}
    {{if .ClientName}} | Client: {{.ClientName}}{{end}}
    | Generated {{formatDate .GeneratedAt "Jan 2, 2006"}}
  </div>

  {{range .Sections}}
  <h2>{{.Title}}</h2>
  {{if .Description}}<p class="section-desc">{{.Description}}</p>{{end}}
  {{if .Attachments}}<p class="attachments">Attachments: {{range $i, $a := .Attachments}}{{if $i}}, {{end}}{{$a}}{{end}}</p>{{end}}

  {{range .Items}}
  <div class="item">
    <div class="item-head">
      {{.Title}}
      {{if and $.IncludePrice .Price}}<span class="price">{{.Price}}</span>{{end}}
    </div>
    <div class="item-type">{{.Type}}{{if .StoreName}} &middot; {{.StoreName}}{{end}}</div>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
    {{if .Reactions}}<div class="reactions">{{range $i, $r := .Reactions}}{{if $i}}, {{end}}{{$r}}{{end}}</div>{{end}}
    {{range .Comments}}
    <div class="comment"><strong>{{.Author}}:</strong> {{.Content}}</div>
    {{end}}
  </div>
  {{end}}
  {{else}}
  <p>No materials have been shared yet.</p>
  {{end}}
</body>
</html>`
