package shelfcli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sagarc03/appshelf"
)

// Formatter formats command results for output.
type Formatter interface {
	FormatReport(w io.Writer, report appshelf.Report) error
	FormatSections(w io.Writer, sections []appshelf.Section) error
	FormatScaffold(w io.Writer, results []ScaffoldResult) error
	FormatError(w io.Writer, err error) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatReport formats a consistency report as human-readable text. In
// quiet mode only problems are printed.
func (f *HumanFormatter) FormatReport(w io.Writer, report appshelf.Report) error {
	problems := 0

	for i := range report.Categories {
		c := &report.Categories[i]
		problems += len(c.Missing) + len(c.Unlisted)

		if f.Quiet && len(c.Missing) == 0 && len(c.Unlisted) == 0 {
			continue
		}

		_, _ = fmt.Fprintf(w, "%s (%s): %d listed\n", c.Category, c.Heading, c.Listed)
		if len(c.Missing) > 0 {
			_, _ = fmt.Fprintf(w, "  missing:  %s\n", joinPackages(c.Missing))
		}
		if len(c.Unlisted) > 0 {
			_, _ = fmt.Fprintf(w, "  unlisted: %s\n", joinPackages(c.Unlisted))
		}
	}

	if len(report.Orphans) > 0 {
		problems += len(report.Orphans)
		_, _ = fmt.Fprintf(w, "orphan categories (no directory): %s\n", strings.Join(report.Orphans, ", "))
	}

	if f.Quiet {
		return nil
	}

	if problems == 0 {
		_, _ = fmt.Fprintln(w, "\nCatalog and apps directory agree")
		return nil
	}

	_, _ = fmt.Fprintf(w, "\n%d problem(s) found\n", problems)
	return nil
}

func joinPackages(names []string) string {
	files := make([]string, len(names))
	for i, n := range names {
		files[i] = n + appshelf.PackageExt
	}
	return strings.Join(files, ", ")
}

// FormatSections formats rendered sections as an indented listing.
func (f *HumanFormatter) FormatSections(w io.Writer, sections []appshelf.Section) error {
	if len(sections) == 0 {
		_, _ = fmt.Fprintln(w, "No apps found")
		return nil
	}

	tiles := 0
	for i := range sections {
		s := &sections[i]
		_, _ = fmt.Fprintf(w, "%s\n", s.Heading)
		for _, t := range s.Tiles {
			tiles++
			if f.Quiet {
				_, _ = fmt.Fprintf(w, "  %s\n", t.DownloadURL)
				continue
			}
			_, _ = fmt.Fprintf(w, "  %-24s %s\n", t.Name, t.Description)
		}
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d app(s) in %d categor%s\n", tiles, len(sections), plural(len(sections), "y", "ies"))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatScaffold formats scaffold results as human-readable text.
func (f *HumanFormatter) FormatScaffold(w io.Writer, results []ScaffoldResult) error {
	for _, r := range results {
		if f.Quiet && r.Status == StatusSkipped {
			continue
		}
		_, _ = fmt.Fprintf(w, "%-11s %s\n", r.Status, r.Path)
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatReport formats a consistency report as JSON.
func (f *JSONFormatter) FormatReport(w io.Writer, report appshelf.Report) error {
	output := struct {
		appshelf.Report
		Clean bool `json:"clean"`
	}{
		Report: report,
		Clean:  report.Clean(),
	}
	if output.Categories == nil {
		output.Categories = []appshelf.CategoryReport{}
	}
	return writeJSON(w, output)
}

// FormatSections formats rendered sections as JSON.
func (f *JSONFormatter) FormatSections(w io.Writer, sections []appshelf.Section) error {
	if sections == nil {
		sections = []appshelf.Section{}
	}
	return writeJSON(w, struct {
		Sections []appshelf.Section `json:"sections"`
	}{Sections: sections})
}

// FormatScaffold formats scaffold results as JSON.
func (f *JSONFormatter) FormatScaffold(w io.Writer, results []ScaffoldResult) error {
	return writeJSON(w, struct {
		Files []ScaffoldResult `json:"files"`
	}{Files: results})
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
