package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/rosterlint/internal/validation"
	"github.com/ShayCichocki/rosterlint/pkg/models"
)

// Format is a report output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a format name; "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or yaml)", s)
	}
}

// Document is the serialised form of a report.
type Document struct {
	Valid   bool                      `json:"valid" yaml:"valid"`
	Count   int                       `json:"count" yaml:"count"`
	Summary string                    `json:"summary" yaml:"summary"`
	ByKind  map[models.Kind]int       `json:"by_kind,omitempty" yaml:"by_kind,omitempty"`
	Errors  []models.ValidationError  `json:"errors" yaml:"errors"`
	Phases  []validation.PhaseBalance `json:"phases,omitempty" yaml:"phases,omitempty"`
}

// NewDocument flattens a report for serialisation.
func NewDocument(report *validation.Report) Document {
	errs := report.All()
	if errs == nil {
		errs = []models.ValidationError{}
	}
	doc := Document{
		Valid:   report.Valid(),
		Count:   report.Count(),
		Summary: report.Summary(),
		Errors:  errs,
		Phases:  report.Phases,
	}
	if doc.Count > 0 {
		doc.ByKind = report.ByKind()
	}
	return doc
}

// WriteReport renders report to w in the given format.
func WriteReport(w io.Writer, report *validation.Report, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(report))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(report)); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, report)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, report *validation.Report) error {
	for _, e := range report.All() {
		if _, err := fmt.Fprintf(w, "%-10s %s\n", "["+string(e.Kind)+"]", e); err != nil {
			return err
		}
	}

	if len(report.Phases) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Phase balance:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  PHASE\tDEMAND\tSUPPLY\t")
		for _, p := range report.Phases {
			mark := ""
			if p.Saturated() {
				mark = "over"
			}
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\n", p.Phase, strconv.FormatFloat(p.Demand, 'f', -1, 64), p.Supply, mark)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	_, err := fmt.Fprintln(w, report.Summary())
	return err
}
