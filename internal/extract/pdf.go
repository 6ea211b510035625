package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts plain text from a PDF rendering, page by page, pages
// joined with a newline, then applies the same whitespace normalisation
// as the HTML path. Scanned or malformed PDFs yield an empty string;
// the function never fails. The pdf library panics on some corrupt
// inputs, so the whole extraction runs under a recover.
func PDF(raw []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract.
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}

	return normalise(sb.String())
}
