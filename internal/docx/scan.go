package docx

import (
	"html"
	"strings"
)

// textNode is one <w:t> element. Offsets index the part's XML source.
type textNode struct {
	tagStart int // start of the <w:t ...> tag
	start    int // start of the escaped content
	end      int // start of </w:t>
	runEnd   int // just past the enclosing </w:r>, -1 if none
	preserve bool
	text     string
	dirty    bool
}

type paragraph struct {
	nodes []*textNode
}

func (p *paragraph) text() string {
	var b strings.Builder
	for _, n := range p.nodes {
		b.WriteString(n.text)
	}
	return b.String()
}

// locate maps a byte offset of p.text() to a node index and an offset
// inside that node. pos must be inside the paragraph text.
func (p *paragraph) locate(pos int) (int, int) {
	off := 0
	for i, n := range p.nodes {
		if pos < off+len(n.text) {
			return i, pos - off
		}
		off += len(n.text)
	}
	last := len(p.nodes) - 1
	return last, len(p.nodes[last].text)
}

// scan walks a WordprocessingML part and returns its paragraphs in document
// order. Paragraphs nested in text boxes are reported separately from the
// paragraph that anchors them. Text outside any paragraph is ignored.
func scan(src string) []*paragraph {
	var (
		out   []*paragraph
		stack []*paragraph
	)
	for i := 0; i < len(src); {
		lt := strings.IndexByte(src[i:], '<')
		if lt < 0 {
			break
		}
		i += lt
		gt := strings.IndexByte(src[i:], '>')
		if gt < 0 {
			break
		}
		next := i + gt + 1
		tag := src[i:next]

		switch {
		case tag == "</w:p>":
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
		case isStartTag(tag, "w:p"):
			p := &paragraph{}
			out = append(out, p)
			stack = append(stack, p)
		case isStartTag(tag, "w:t"):
			closing := strings.Index(src[next:], "</w:t>")
			if closing < 0 {
				return out
			}
			end := next + closing
			if len(stack) > 0 {
				n := &textNode{
					tagStart: i,
					start:    next,
					end:      end,
					runEnd:   -1,
					preserve: strings.Contains(tag, "xml:space"),
					text:     html.UnescapeString(src[next:end]),
				}
				if r := strings.Index(src[end:], "</w:r>"); r >= 0 {
					n.runEnd = end + r + len("</w:r>")
				}
				top := stack[len(stack)-1]
				top.nodes = append(top.nodes, n)
			}
			next = end + len("</w:t>")
		}
		i = next
	}
	return out
}

// isStartTag reports whether tag opens (and does not self-close) an
// element called name. "<w:tbl>" is not a start tag for "w:t".
func isStartTag(tag, name string) bool {
	if !strings.HasPrefix(tag, "<"+name) || strings.HasSuffix(tag, "/>") {
		return false
	}
	switch tag[len(name)+1] {
	case '>', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// escapeText makes s safe as w:t character data. Invalid UTF-8 and
// characters outside the XML 1.0 Char range are dropped; vertical tab and
// form feed (Word's manual line and page breaks) become spaces.
func escapeText(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\v' || r == '\f':
			return ' '
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20, r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, s)
	return escaper.Replace(s)
}
