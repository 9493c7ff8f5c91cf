package util

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// NormalizeDocument turns an uploaded blob into plain text. The filename
// extension selects the decoder: PDFs are extracted page by page, DOCX files
// paragraph by paragraph, and anything else is decoded as lenient UTF-8 text.
// An empty blob yields an empty string, not an error.
func NormalizeDocument(blob []byte, filename string) (string, error) {
	if len(blob) == 0 {
		return "", nil
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return ExtractPDFText(blob)
	case ".docx":
		return ExtractDocxText(blob)
	default:
		return DecodeText(blob), nil
	}
}

// DecodeText decodes a blob as UTF-8 text, replacing undecodable bytes rather
// than failing.
func DecodeText(blob []byte) string {
	return strings.ToValidUTF8(string(blob), "�")
}

// ExtractPDFText extracts text from a PDF blob in page order. A page that
// cannot be extracted contributes empty text; only a blob that cannot be
// opened as a PDF at all is an error.
func ExtractPDFText(blob []byte) (string, error) {
	doc, err := fitz.NewFromMemory(blob)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText bytes.Buffer
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			log.Printf("page %d: failed to extract text: %v", n+1, err)
			continue
		}
		fullText.WriteString(pageText)
	}
	return fullText.String(), nil
}

// ExtractDocxText extracts text from a DOCX blob paragraph by paragraph, in
// document order, joined with newlines.
func ExtractDocxText(blob []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer rc.Close()
		return decodeDocxXML(rc)
	}
	return "", fmt.Errorf("document.xml not found in DOCX")
}

func decodeDocxXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		text   bytes.Buffer
		inText bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}
	return text.String(), nil
}
