// Package render turns a merged view into one of the two Word documents:
// the selective reentry care plan or the exhaustive data validation
// report. Row content is computed separately (rows.go) from the docx
// emission so the rendering contract stays testable without unpacking
// OOXML.
package render

import (
	"bytes"
	"fmt"
	"os"

	"github.com/fumiama/go-docx"
	"github.com/rs/zerolog"

	"github.com/serrano-advisors/careplan/merge"
)

const (
	titleSize  = "32" // half-points: 16pt
	tableWidth = 9000

	colorBlack = "000000"
	colorGreen = "008000"
	colorRed   = "FF0000"
)

// Renderer builds documents starting from a template file. An empty
// template path starts from a blank document instead; a configured but
// unreadable template is a hard error for the request.
type Renderer struct {
	templatePath string
	log          zerolog.Logger
}

func NewRenderer(templatePath string, log zerolog.Logger) *Renderer {
	return &Renderer{
		templatePath: templatePath,
		log:          log,
	}
}

// CarePlan renders the selective care-plan document.
func (r *Renderer) CarePlan(view *merge.View, selectedFields []string) ([]byte, error) {
	doc, err := r.openTemplate()
	if err != nil {
		return nil, err
	}

	addTitle(doc, fmt.Sprintf("%s's Reentry Care Plan", view.Name))

	rows := CarePlanRows(view, selectedFields)
	tbl := doc.AddTable(len(rows)+1, 2, tableWidth, nil)
	setCellText(tbl, 0, 0, "Field", colorBlack, true)
	setCellText(tbl, 0, 1, "Value", colorBlack, true)
	for i, row := range rows {
		setCellText(tbl, i+1, 0, row.Field, colorBlack, false)
		setCellText(tbl, i+1, 1, row.Value, colorBlack, false)
	}

	r.log.Info().
		Str("person", view.Name).
		Int("fields", len(rows)).
		Msg("Rendered care plan")

	return writeDoc(doc)
}

// ValidationReport renders the exhaustive field-presence document. The
// status cell carries the color contract: green for available, red for
// missing.
func (r *Renderer) ValidationReport(view *merge.View) ([]byte, error) {
	doc, err := r.openTemplate()
	if err != nil {
		return nil, err
	}

	addTitle(doc, fmt.Sprintf("Data Validation Report for %s", view.Name))

	rows := ValidationRows(view)
	tbl := doc.AddTable(len(rows)+1, 2, tableWidth, nil)
	setCellText(tbl, 0, 0, "Field", colorBlack, true)
	setCellText(tbl, 0, 1, "Status", colorBlack, true)
	for i, row := range rows {
		setCellText(tbl, i+1, 0, row.Field, colorBlack, false)
		statusColor := colorGreen
		if row.Missing {
			statusColor = colorRed
		}
		setCellText(tbl, i+1, 1, row.Status, statusColor, false)
	}

	r.log.Info().
		Str("person", view.Name).
		Int("fields", len(rows)).
		Msg("Rendered validation report")

	return writeDoc(doc)
}

func (r *Renderer) openTemplate() (*docx.Docx, error) {
	if r.templatePath == "" {
		return docx.New().WithDefaultTheme(), nil
	}

	f, err := os.Open(r.templatePath)
	if err != nil {
		return nil, fmt.Errorf("template file not found at %s: %w", r.templatePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat template %s: %w", r.templatePath, err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", r.templatePath, err)
	}
	return doc, nil
}

func addTitle(doc *docx.Docx, title string) {
	p := doc.AddParagraph().Justification("center")
	p.AddText(title).Size(titleSize).Color(colorBlack).Bold()
	doc.AddParagraph()
}

func setCellText(tbl *docx.Table, row, col int, text, color string, bold bool) {
	run := tbl.TableRows[row].TableCells[col].AddParagraph().AddText(text).Color(color)
	if bold {
		run.Bold()
	}
}

func writeDoc(doc *docx.Docx) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	return buf.Bytes(), nil
}
