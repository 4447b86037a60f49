package html

import (
	_ "embed" // use go embed to import template
	"html/template"
	"io"

	"github.com/securejs/jssec"
)

//go:embed template.html
var templateContent string

// WriteReport write a report in html format to the output writer
func WriteReport(w io.Writer, data *jssec.ReportInfo) error {
	t, e := template.New("jssec").Parse(templateContent)
	if e != nil {
		return e
	}

	return t.Execute(w, data)
}
