package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Section is a heading-delimited portion of a markdown document. Keeping
// heading boundaries intact stops a chunk from straddling two unrelated
// troubleshooting topics.
type Section struct {
	Title string
	Text  string
}

// SplitSections splits markdown at level-1 and level-2 headings. Content
// before the first heading becomes an untitled leading section. A document
// with no headings comes back as a single section.
func SplitSections(src []byte) []Section {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	type boundary struct {
		offset int
		title  string
	}
	var boundaries []boundary

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level > 2 || heading.Lines().Len() == 0 {
			continue
		}
		seg := heading.Lines().At(0)
		boundaries = append(boundaries, boundary{
			offset: lineStart(src, seg.Start),
			title:  strings.TrimSpace(string(src[seg.Start:seg.Stop])),
		})
	}

	if len(boundaries) == 0 {
		return []Section{{Text: strings.TrimSpace(string(src))}}
	}

	var sections []Section
	if lead := strings.TrimSpace(string(src[:boundaries[0].offset])); lead != "" {
		sections = append(sections, Section{Text: lead})
	}
	for i, b := range boundaries {
		end := len(src)
		if i+1 < len(boundaries) {
			end = boundaries[i+1].offset
		}
		body := strings.TrimSpace(string(src[b.offset:end]))
		if body != "" {
			sections = append(sections, Section{Title: b.title, Text: body})
		}
	}
	return sections
}

// lineStart walks back from pos to the beginning of its line, so a section
// slice includes the heading's own "#" markers.
func lineStart(src []byte, pos int) int {
	for pos > 0 && src[pos-1] != '\n' {
		pos--
	}
	return pos
}
