// Package pdftext extracts the embedded text layer of a PDF document.
package pdftext

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ByLCY/swotdoc/fault"
)

// Extract returns the text of every page, in page order, separated by
// newlines. Image-only pages contribute nothing.
func Extract(data []byte) (text string, err error) {
	// the reader panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fault.Input(fmt.Errorf("%v", r), "Failed to extract text from PDF")
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fault.Input(err, "Failed to extract text from PDF")
	}

	fonts := make(map[string]*pdf.Font)
	parts := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}
		pageText, pageErr := p.GetPlainText(fonts)
		if pageErr != nil {
			return "", fault.Input(pageErr, "Failed to extract text from PDF (page %d)", i)
		}
		if trimmed := strings.TrimSpace(pageText); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "\n"), nil
}

// ExtractFile reads path and extracts its text.
func ExtractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fault.Input(err, "Failed to read PDF file")
	}
	return Extract(data)
}
