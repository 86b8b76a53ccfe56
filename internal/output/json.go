package output

import (
	"encoding/json"
	"io"

	"bilisweep/internal/model"
)

// JSONFormatter emits the decisions and run summary as a single JSON
// document, suitable for piping into jq or other tooling.
type JSONFormatter struct {
	Pretty bool
}

type jsonReport struct {
	Decisions []model.Decision `json:"decisions"`
	Summary   *model.RunReport `json:"summary"`
}

func (f *JSONFormatter) Format(decisions []model.Decision, report *model.RunReport, w io.Writer) error {
	if decisions == nil {
		decisions = []model.Decision{}
	}
	doc := jsonReport{Decisions: decisions, Summary: report}

	enc := json.NewEncoder(w)
	if f.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}
