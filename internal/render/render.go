// Package render turns an archived article's HTML into plain text for the
// terminal.
package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the rendered form of an article.
type Document struct {
	Title string
	Text  string
	Links []string // absolute link targets, referenced as [n] in Text
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Text renders src and returns only the body text, with a trailing link list
// when the article has links.
func Text(src string) (string, error) {
	doc, err := Parse(src)
	if err != nil {
		return "", err
	}
	return doc.String(), nil
}

// String joins the body text and the link list.
func (d Document) String() string {
	if len(d.Links) == 0 {
		return d.Text
	}
	var b strings.Builder
	b.WriteString(d.Text)
	b.WriteString("\n\nLinks:\n")
	for i, href := range d.Links {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, href)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Parse walks the HTML tree of src.
func Parse(src string) (Document, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return Document{}, fmt.Errorf("parse html: %w", err)
	}
	w := &walker{linkIndex: make(map[string]int)}
	w.walk(root)

	text := blankRuns.ReplaceAllString(w.out.String(), "\n\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return Document{
		Title: strings.TrimSpace(w.title),
		Text:  strings.TrimSpace(strings.Join(lines, "\n")),
		Links: w.links,
	}, nil
}

type listState struct {
	ordered bool
	next    int
}

type walker struct {
	out       strings.Builder
	title     string
	lists     []listState
	pre       int
	quote     int
	links     []string
	linkIndex map[string]int
	// pendingSpace is set after whitespace so runs collapse to one space.
	pendingSpace bool
	atLineStart  bool
}

func (w *walker) walk(n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		w.atLineStart = true
		w.children(n)
		return
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Head:
		w.title = findTitle(n)
		return
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Svg, atom.Iframe:
		return
	case atom.Br:
		w.newline()
		return
	case atom.Hr:
		w.block()
		w.raw("----")
		w.block()
		return
	case atom.Img:
		if alt := strings.TrimSpace(attr(n, "alt")); alt != "" {
			w.text("[image: " + alt + "]")
		}
		return
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		w.block()
		w.raw(strings.Repeat("#", level) + " ")
		w.children(n)
		w.block()
		return
	case atom.Ul, atom.Ol:
		w.block()
		start := 1
		if v, err := strconv.Atoi(attr(n, "start")); err == nil {
			start = v
		}
		w.lists = append(w.lists, listState{ordered: n.DataAtom == atom.Ol, next: start})
		w.children(n)
		w.lists = w.lists[:len(w.lists)-1]
		w.block()
		return
	case atom.Li:
		w.newline()
		w.raw(w.bullet())
		w.children(n)
		w.newline()
		return
	case atom.Pre:
		w.block()
		w.pre++
		w.children(n)
		w.pre--
		w.block()
		return
	case atom.Blockquote:
		w.block()
		w.quote++
		w.children(n)
		w.quote--
		w.block()
		return
	case atom.A:
		w.children(n)
		if ref := w.link(attr(n, "href")); ref > 0 {
			w.raw(fmt.Sprintf("[%d]", ref))
		}
		return
	case atom.Tr:
		w.newline()
		w.children(n)
		w.newline()
		return
	case atom.Td, atom.Th:
		w.children(n)
		w.raw("\t")
		return
	}

	if isBlock(n.DataAtom) {
		w.block()
		w.children(n)
		w.block()
		return
	}
	w.children(n)
}

func (w *walker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

func (w *walker) text(s string) {
	if w.pre > 0 {
		for i, line := range strings.Split(s, "\n") {
			if i > 0 {
				w.out.WriteByte('\n')
				w.atLineStart = true
			}
			w.raw(line)
		}
		return
	}
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' || r == '\f' {
			w.pendingSpace = true
			continue
		}
		if w.pendingSpace && !w.atLineStart && !w.endsWithSpace() {
			w.out.WriteByte(' ')
		}
		w.pendingSpace = false
		w.raw(string(r))
	}
}

// raw writes s verbatim, applying the quote prefix at line starts.
func (w *walker) raw(s string) {
	if s == "" {
		return
	}
	if w.atLineStart && w.quote > 0 {
		w.out.WriteString(strings.Repeat("> ", w.quote))
	}
	w.out.WriteString(s)
	w.atLineStart = false
	w.pendingSpace = false
}

func (w *walker) endsWithSpace() bool {
	out := w.out.String()
	return len(out) > 0 && (out[len(out)-1] == ' ' || out[len(out)-1] == '\t')
}

func (w *walker) newline() {
	if !w.atLineStart {
		w.out.WriteByte('\n')
	}
	w.atLineStart = true
	w.pendingSpace = false
}

// block ends the current line and leaves one blank line before the next
// block. Repeated calls do not stack blank lines.
func (w *walker) block() {
	w.newline()
	if w.out.Len() == 0 {
		return
	}
	if !strings.HasSuffix(w.out.String(), "\n\n") {
		w.out.WriteByte('\n')
	}
}

func (w *walker) bullet() string {
	if len(w.lists) == 0 {
		return "- "
	}
	top := &w.lists[len(w.lists)-1]
	indent := strings.Repeat("  ", len(w.lists)-1)
	if top.ordered {
		n := top.next
		top.next++
		return fmt.Sprintf("%s%d. ", indent, n)
	}
	return indent + "- "
}

// link records href and returns its 1-based reference number, or 0 when the
// target is not worth listing.
func (w *walker) link(href string) int {
	href = strings.TrimSpace(href)
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return 0
	}
	if idx, ok := w.linkIndex[href]; ok {
		return idx
	}
	w.links = append(w.links, href)
	w.linkIndex[href] = len(w.links)
	return len(w.links)
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer,
		atom.Main, atom.Nav, atom.Aside, atom.Figure, atom.Figcaption,
		atom.Table, atom.Dl, atom.Dt, atom.Dd, atom.Address, atom.Details, atom.Summary:
		return true
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findTitle(n *html.Node) string {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Title {
			var b strings.Builder
			for t := c.FirstChild; t != nil; t = t.NextSibling {
				if t.Type == html.TextNode {
					b.WriteString(t.Data)
				}
			}
			return strings.Join(strings.Fields(b.String()), " ")
		}
	}
	return ""
}
