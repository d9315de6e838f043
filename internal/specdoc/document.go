// Package specdoc reads project specification documents and extracts the
// project name, overall timeline and numbered stages from their text.
package specdoc

import (
	"archive/zip"
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// documentXMLPath is the main body part inside a .docx package.
const documentXMLPath = "word/document.xml"

// ErrNoDocumentBody is returned when a .docx archive has no word/document.xml.
var ErrNoDocumentBody = errors.New("docx: missing word/document.xml")

// ReadDocument returns the paragraphs of a specification document. Word
// documents (.docx) are read from their OOXML body; any other file is read
// as plain text with one paragraph per line.
func ReadDocument(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".docx") {
		return readDocx(path)
	}

	f, err := os.Open(path) // #nosec G304 - document path supplied by the user
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()
	return readLines(f)
}

// Text joins paragraphs with newlines, the form the AI planner receives.
func Text(paragraphs []string) string {
	return strings.Join(paragraphs, "\n")
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return lines, nil
}

func readDocx(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		if f.Name != documentXMLPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", documentXMLPath, err)
		}
		defer func() { _ = rc.Close() }()
		return parseDocumentXML(rc)
	}
	return nil, ErrNoDocumentBody
}

// wordNS is the WordprocessingML namespace. Elements from other namespaces
// (DrawingML shapes, math) are ignored.
const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// parseDocumentXML walks the WordprocessingML body and returns one string
// per <w:p>. Text runs (<w:t>) are concatenated, <w:tab/> becomes a tab and
// <w:br/> a newline. Paragraphs nested inside text boxes are emitted as
// their own paragraphs ahead of the paragraph that contains them, and tab
// stop definitions in paragraph properties are not text.
func parseDocumentXML(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		open       []*strings.Builder
		propsDepth int
		inText     bool
	)
	current := func() *strings.Builder {
		if len(open) == 0 {
			return nil
		}
		return open[len(open)-1]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", documentXMLPath, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "pPr":
				propsDepth++
			case "t":
				inText = true
			case "tab":
				if b := current(); b != nil && propsDepth == 0 {
					b.WriteByte('\t')
				}
			case "br", "cr":
				if b := current(); b != nil {
					b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				if b := current(); b != nil {
					paragraphs = append(paragraphs, b.String())
					open = open[:len(open)-1]
				}
			case "pPr":
				propsDepth--
			case "t":
				inText = false
			}
		case xml.CharData:
			if b := current(); b != nil && inText {
				b.Write(t)
			}
		}
	}
	return paragraphs, nil
}
