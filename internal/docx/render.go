package docx

import (
	"fmt"
	"sort"
	"strings"
)

type insertion struct {
	at  int
	xml string
}

// editor collects changes to one part and splices them in a single pass.
type editor struct {
	src     string
	paras   []*paragraph
	inserts []insertion
}

func newEditor(src string) *editor {
	return &editor{src: src, paras: scan(src)}
}

// replace substitutes up to limit occurrences of token (all when limit < 0)
// and returns the start node of the first one replaced.
func (e *editor) replace(token, value string, limit int) (*textNode, int) {
	var (
		first *textNode
		total int
	)
	for _, p := range e.paras {
		if limit >= 0 && total >= limit {
			break
		}
		remaining := -1
		if limit >= 0 {
			remaining = limit - total
		}
		n, count := p.replace(token, value, remaining)
		if first == nil {
			first = n
		}
		total += count
	}
	return first, total
}

// replace rewrites occurrences of token inside one paragraph. The text
// before the token stays in the run where the token starts, followed by the
// value; the text after it stays in the run where the token ends. Runs fully
// covered by the token are emptied, so their formatting is lost.
func (p *paragraph) replace(token, value string, limit int) (*textNode, int) {
	var (
		first *textNode
		count int
		from  int
	)
	for limit < 0 || count < limit {
		full := p.text()
		if from > len(full) {
			break
		}
		idx := strings.Index(full[from:], token)
		if idx < 0 {
			break
		}
		idx += from

		si, so := p.locate(idx)
		ei, eo := p.locate(idx + len(token) - 1)
		eo++

		start, end := p.nodes[si], p.nodes[ei]
		if si == ei {
			start.text = start.text[:so] + value + start.text[eo:]
		} else {
			suffix := end.text[eo:]
			start.text = start.text[:so] + value
			for _, n := range p.nodes[si+1 : ei] {
				n.text = ""
				n.dirty = true
			}
			end.text = suffix
			end.dirty = true
		}
		start.dirty = true

		if first == nil {
			first = start
		}
		count++
		// Skip past the value so a value containing the token terminates.
		from = idx + len(value)
	}
	return first, count
}

func (e *editor) insertAfterRun(n *textNode, xml string) error {
	if n.runEnd < 0 {
		return fmt.Errorf("%w: placeholder text is not inside a run", ErrTemplate)
	}
	e.inserts = append(e.inserts, insertion{at: n.runEnd, xml: xml})
	return nil
}

func (e *editor) changed() bool {
	if len(e.inserts) > 0 {
		return true
	}
	for _, p := range e.paras {
		for _, n := range p.nodes {
			if n.dirty {
				return true
			}
		}
	}
	return false
}

type splice struct {
	start, end int
	text       string
}

// render produces the edited XML. Dirty nodes get their open tag rewritten
// to preserve whitespace, since a substituted value may start or end with
// a space.
func (e *editor) render() string {
	var edits []splice
	for _, p := range e.paras {
		for _, n := range p.nodes {
			if !n.dirty {
				continue
			}
			tag := e.src[n.tagStart:n.start]
			if !n.preserve {
				tag = `<w:t xml:space="preserve">`
			}
			edits = append(edits, splice{start: n.tagStart, end: n.end, text: tag + escapeText(n.text)})
		}
	}
	for _, ins := range e.inserts {
		edits = append(edits, splice{start: ins.at, end: ins.at, text: ins.xml})
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var b strings.Builder
	b.Grow(len(e.src))
	last := 0
	for _, ed := range edits {
		b.WriteString(e.src[last:ed.start])
		b.WriteString(ed.text)
		last = ed.end
	}
	b.WriteString(e.src[last:])
	return b.String()
}

// Render applies m to the document. Text values replace every occurrence
// of their token; image values replace only the first. Keys with no token
// in the document are ignored, and tokens with no key are left as they are.
func (d *Document) Render(m *Mapping) error {
	names := d.textParts()
	editors := make([]*editor, len(names))
	for i, name := range names {
		editors[i] = newEditor(string(d.index[name].data))
	}

	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		switch v := v.(type) {
		case Text:
			for _, e := range editors {
				e.replace(Token(key), string(v), -1)
			}
		case Image:
			if err := d.renderImage(names, editors, key, v); err != nil {
				return err
			}
		}
	}

	for i, name := range names {
		if editors[i].changed() {
			d.index[name].data = []byte(editors[i].render())
		}
	}
	return nil
}

func (d *Document) renderImage(names []string, editors []*editor, key string, img Image) error {
	for i, e := range editors {
		n, _ := e.replace(Token(key), "", 1)
		if n == nil {
			continue
		}
		data, cx, cy, err := img.prepare()
		if err != nil {
			return err
		}
		relID, err := d.addImage(names[i], data)
		if err != nil {
			return err
		}
		return e.insertAfterRun(n, drawing(relID, d.images, cx, cy))
	}
	return nil
}
