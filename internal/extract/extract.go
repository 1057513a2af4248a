package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

// maxDocumentPages bounds how much of a document is ever consulted.
const maxDocumentPages = 3

// Pages returns per-page plain text for an in-memory document. At most the
// first three pages are read; pages without a text layer are skipped.
// Libraries used: github.com/ledongthuc/pdf (PDF) and
// github.com/nguyenthenguyen/docx (DOCX).
func Pages(data []byte, mimeType string, fileName string) ([]string, error) {
	normalized := normalizeMimeType(mimeType, fileName, data)
	switch normalized {
	case mimePDF:
		return pagesPDF(data)
	case mimeDOCX:
		return pagesDOCX(data)
	case mimeText:
		return []string{string(data)}, nil
	default:
		return nil, fmt.Errorf("unsupported mime type: %s", normalized)
	}
}

// MimeFromName maps a file extension to the mime types Pages accepts.
func MimeFromName(fileName string) (string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return mimePDF, nil
	case ".docx":
		return mimeDOCX, nil
	case ".txt":
		return mimeText, nil
	default:
		return "", fmt.Errorf("unsupported resume file type: %s", filepath.Ext(fileName))
	}
}

func pagesPDF(data []byte) ([]string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	numPages := pdfReader.NumPage()
	if numPages > maxDocumentPages {
		numPages = maxDocumentPages
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func pagesDOCX(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	// GetContent returns WordprocessingML; reduce it to plain text. DOCX has
	// no fixed pagination, so the whole document counts as one page.
	return []string{docxPlainText(doc.Editable().GetContent())}, nil
}

func docxPlainText(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func normalizeMimeType(mimeType string, fileName string, data []byte) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	switch clean {
	case "", "application/octet-stream":
		if mapped, err := MimeFromName(fileName); err == nil {
			return mapped
		}
		return clean
	case "application/zip":
		if zipIsDOCX(data) {
			return mimeDOCX
		}
		if strings.ToLower(filepath.Ext(fileName)) == ".docx" {
			return mimeDOCX
		}
		return clean
	default:
		return clean
	}
}

func zipIsDOCX(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return true
		}
	}
	return false
}
