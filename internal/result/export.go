package result

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"taskgrid/internal/task"

	"github.com/jung-kurt/gofpdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Lister interface {
	List(ctx context.Context) []task.Task
}

type Exporter struct{ src Lister }

func NewExporter(src Lister) *Exporter { return &Exporter{src: src} }

// ContentType maps an export format to its MIME type.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "csv":
		return "text/csv"
	case "pdf":
		return "application/pdf"
	default:
		return "application/json"
	}
}

func (e *Exporter) Export(ctx context.Context, format string) ([]byte, error) {
	all := e.src.List(ctx)
	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(all, "", "  ")
	case "csv":
		var b bytes.Buffer
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "title", "description"})
		for _, t := range all {
			_ = w.Write([]string{strconv.Itoa(t.ID), t.Title, t.Description})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("csv export: %w", err)
		}
		return b.Bytes(), nil
	case "pdf":
		return exportPDF(all)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// exportPDF uses the core Arial font, so text is encoded as cp1252. Runes
// outside that code page are written as '.'.
func exportPDF(all []task.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)
	if len(all) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(40, 6, "No tasks yet")
	}
	for _, t := range all {
		pdf.SetFont("Arial", "B", 11)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("#%d %s", t.ID, t.Title)), "0", "L", false)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(t.Description), "0", "L", false)
		pdf.Ln(2)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf export: %w", err)
	}
	return buf.Bytes(), nil
}
