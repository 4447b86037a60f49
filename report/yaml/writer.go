package yaml

import (
	"io"

	"github.com/securejs/jssec"
	"gopkg.in/yaml.v3"
)

// WriteReport write a report in yaml format to the output writer
func WriteReport(w io.Writer, data *jssec.ReportInfo) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}
