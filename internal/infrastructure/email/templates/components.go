package templates

import (
	"bytes"
	"html/template"
	"log"
	"net/url"
	"strings"
)

type ButtonProps struct {
	Text            string
	URL             string
	BackgroundColor string
	TextColor       string
}

// Field is one labelled row of a detail table.
type Field struct {
	Label string
	Value string
}

var (
	buttonTemplate = template.Must(template.New("emailButton").Parse(`
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" class="btn btn-primary" style="border-collapse: separate; box-sizing: border-box; width: 100%; min-width: 100%;" width="100%">
      <tbody>
        <tr>
          <td align="left" style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; padding-bottom: 16px;" valign="top">
            <a href="{{.URL}}" target="_blank" style="border: solid 2px {{.BackgroundColor}}; border-radius: 4px; box-sizing: border-box; display: inline-block; font-size: 16px; font-weight: bold; margin: 0; padding: 12px 24px; text-decoration: none; background-color: {{.BackgroundColor}}; color: {{.TextColor}};">{{.Text}}</a>
          </td>
        </tr>
      </tbody>
    </table>`))

	paragraphTemplate = template.Must(template.New("emailParagraph").Parse(`<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">{{.}}</p>`))

	fieldsTemplate = template.Must(template.New("emailFields").Parse(`
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: collapse; width: 100%; margin-bottom: 16px;" width="100%">
      {{- range .}}
      <tr>
        <td style="font-family: Helvetica, sans-serif; font-size: 14px; font-weight: bold; padding: 6px 12px 6px 0; vertical-align: top; white-space: nowrap;" valign="top">{{.Label}}</td>
        <td style="font-family: Helvetica, sans-serif; font-size: 14px; padding: 6px 0; vertical-align: top; white-space: pre-wrap;" valign="top">{{.Value}}</td>
      </tr>
      {{- end}}
    </table>`))
)

func GetButton(props ButtonProps) string {
	data := ButtonProps{
		Text:            props.Text,
		URL:             safeURL(props.URL),
		BackgroundColor: safeColor(props.BackgroundColor, "#e4572e"),
		TextColor:       safeColor(props.TextColor, "#ffffff"),
	}

	var buf bytes.Buffer
	if err := buttonTemplate.Execute(&buf, data); err != nil {
		log.Printf("Error executing email button template: %v", err)
		return `<div style="color: red;">Button template error</div>`
	}
	return buf.String()
}

// GetParagraph renders escaped text as a paragraph.
func GetParagraph(text string) string {
	var buf bytes.Buffer
	if err := paragraphTemplate.Execute(&buf, text); err != nil {
		log.Printf("Error executing email paragraph template: %v", err)
		return `<div style="color: red;">Paragraph template error</div>`
	}
	return buf.String()
}

// GetFields renders a label/value table. Empty values render as a dash.
func GetFields(fields []Field) string {
	rows := make([]Field, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			f.Value = "-"
		}
		rows = append(rows, f)
	}

	var buf bytes.Buffer
	if err := fieldsTemplate.Execute(&buf, rows); err != nil {
		log.Printf("Error executing email fields template: %v", err)
		return `<div style="color: red;">Fields template error</div>`
	}
	return buf.String()
}

func safeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "#"
	}
	switch u.Scheme {
	case "http", "https", "mailto":
		return u.String()
	default:
		return "#"
	}
}

func safeColor(color, def string) string {
	color = strings.TrimSpace(color)
	if (len(color) != 4 && len(color) != 7) || !strings.HasPrefix(color, "#") {
		return def
	}
	for _, r := range color[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return def
		}
	}
	return color
}
