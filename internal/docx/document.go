// Package docx renders Word (OOXML) templates in memory.
//
// A template declares placeholders as {{KEY}}. Render replaces every
// occurrence of each mapped key in the body, tables, headers, footers and
// notes, even when Word has split the token across several formatting runs.
// Only the canonical form is recognised; producers must not add whitespace
// inside the braces.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"
)

// ErrTemplate marks unreadable templates and image resources.
var ErrTemplate = errors.New("template error")

const (
	mainPart         = "word/document.xml"
	contentTypesPart = "[Content_Types].xml"
)

var (
	textPartPattern   = regexp.MustCompile(`^word/((header|footer)\d*|footnotes|endnotes)\.xml$`)
	placeholderFinder = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)
)

type part struct {
	name     string
	method   uint16
	modified time.Time
	data     []byte
}

// Document is an OOXML package held entirely in memory. It is not safe
// for concurrent use; load one per render.
type Document struct {
	parts  []*part
	index  map[string]*part
	images int
}

// Open loads a template from disk.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrTemplate, path, err)
	}
	return Read(data)
}

// Read loads a template from its raw bytes.
func Read(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	d := &Document{index: make(map[string]*part, len(zr.File))}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", ErrTemplate, f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrTemplate, f.Name, err)
		}
		d.add(&part{name: f.Name, method: f.Method, modified: f.Modified, data: b})
	}

	if _, ok := d.index[mainPart]; !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrTemplate, mainPart)
	}
	return d, nil
}

func (d *Document) add(p *part) {
	d.parts = append(d.parts, p)
	d.index[p.name] = p
}

// Write serialises the package, keeping the original part order.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, p := range d.parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   p.method,
			Modified: p.modified,
		})
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := fw.Write(p.data); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	return zw.Close()
}

// Save writes the package to path.
func (d *Document) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Bytes returns the serialised package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// textParts lists the WordprocessingML parts that hold paragraphs,
// main document first.
func (d *Document) textParts() []string {
	names := []string{mainPart}
	for _, p := range d.parts {
		if p.name != mainPart && textPartPattern.MatchString(p.name) {
			names = append(names, p.name)
		}
	}
	return names
}

// Text returns the visible text of the main document, one line per paragraph.
func (d *Document) Text() string {
	paras := scan(string(d.index[mainPart].data))
	lines := make([]string, len(paras))
	for i, p := range paras {
		lines[i] = p.text()
	}
	return strings.Join(lines, "\n")
}

// Placeholders returns the keys of every {{KEY}} token in the document,
// in order of first appearance.
func (d *Document) Placeholders() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, name := range d.textParts() {
		for _, p := range scan(string(d.index[name].data)) {
			for _, m := range placeholderFinder.FindAllStringSubmatch(p.text(), -1) {
				if !seen[m[1]] {
					seen[m[1]] = true
					keys = append(keys, m[1])
				}
			}
		}
	}
	return keys
}
