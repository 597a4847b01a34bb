package portabletext

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// Placeholder replaces a body that cannot be rendered.
const Placeholder = "Content is not available."

// minTOCHeadings is the number of h2/h3 headings that earns a table of contents.
const minTOCHeadings = 3

var calloutTones = map[string]bool{"default": true, "info": true, "warning": true, "success": true, "error": true}

// Renderer turns block arrays into HTML.
type Renderer struct {
	// ProjectID and Dataset locate image assets that carry only a reference.
	ProjectID string
	Dataset   string
	// TOC adds a table of contents to long bodies.
	TOC bool
}

// Render returns the HTML of raw, or the placeholder when raw is missing or
// not a block array. Unknown block types are skipped.
func (r Renderer) Render(raw json.RawMessage) template.HTML {
	blocks, err := Parse(raw)
	if err != nil {
		return PlaceholderHTML()
	}
	return r.RenderBlocks(blocks)
}

// PlaceholderHTML is the markup shown instead of an unreadable body.
func PlaceholderHTML() template.HTML {
	return template.HTML(`<p class="content-unavailable">` + Placeholder + `</p>`)
}

func (r Renderer) RenderBlocks(blocks []Block) template.HTML {
	w := &writer{}
	w.WriteString(`<article class="rich-text">`)

	if r.TOC {
		if headings := Headings(blocks); len(headings) >= minTOCHeadings {
			writeTOC(w, headings)
		}
	}

	for _, b := range blocks {
		if b.Type != "block" || b.ListItem == "" {
			w.closeLists(0)
		}
		switch b.Type {
		case "block":
			if b.ListItem != "" {
				w.listItem(b)
			} else {
				writeTextBlock(w, b)
			}
		case "image":
			r.writeImage(w, b)
		case "code":
			writeCode(w, b)
		case "callout":
			writeCallout(w, b)
		case "video":
			writeVideo(w, b)
		case "divider":
			w.WriteString(`<hr class="divider">`)
		case "table":
			writeTable(w, b)
		}
	}
	w.closeLists(0)

	w.WriteString(`</article>`)
	return template.HTML(w.String())
}

type openList struct {
	tag   string
	level int
}

type writer struct {
	strings.Builder
	lists []openList
}

func (w *writer) text(s string) {
	w.WriteString(template.HTMLEscapeString(s))
}

func (w *writer) closeLists(level int) {
	for len(w.lists) > 0 && w.lists[len(w.lists)-1].level > level {
		top := w.lists[len(w.lists)-1]
		w.lists = w.lists[:len(w.lists)-1]
		fmt.Fprintf(w, "</%s>", top.tag)
	}
}

func (w *writer) listItem(b Block) {
	tag := "ul"
	if b.ListItem == "number" {
		tag = "ol"
	}
	level := b.Level
	if level < 1 {
		level = 1
	}

	w.closeLists(level)
	if n := len(w.lists); n > 0 && w.lists[n-1].level == level && w.lists[n-1].tag != tag {
		w.closeLists(level - 1)
	}
	if n := len(w.lists); n == 0 || w.lists[n-1].level < level {
		w.lists = append(w.lists, openList{tag: tag, level: level})
		fmt.Fprintf(w, `<%s class="list-%s">`, tag, b.ListItem)
	}

	w.WriteString("<li>")
	writeSpans(w, b)
	w.WriteString("</li>")
}

func writeTextBlock(w *writer, b Block) {
	if level := headingLevel(b.Style); level > 0 {
		fmt.Fprintf(w, `<h%d id="%s">`, level, template.HTMLEscapeString(anchorID(b.headingText())))
		writeSpans(w, b)
		fmt.Fprintf(w, "</h%d>", level)
		return
	}

	openTag, closeTag := "<p>", "</p>"
	switch b.Style {
	case "blockquote":
		openTag, closeTag = "<blockquote>", "</blockquote>"
	case "lead":
		openTag = `<p class="lead">`
	case "caption":
		openTag = `<p class="caption">`
	case "note":
		openTag, closeTag = `<div class="note">`, "</div>"
	}
	w.WriteString(openTag)
	writeSpans(w, b)
	w.WriteString(closeTag)
}

var decorators = map[string][2]string{
	"strong":         {"<strong>", "</strong>"},
	"em":             {"<em>", "</em>"},
	"code":           {"<code>", "</code>"},
	"highlight":      {`<span class="highlight">`, "</span>"},
	"underline":      {"<u>", "</u>"},
	"strike-through": {"<s>", "</s>"},
}

func writeSpans(w *writer, b Block) {
	for _, span := range b.Children {
		var closers []string
		for _, mark := range span.Marks {
			if tags, ok := decorators[mark]; ok {
				w.WriteString(tags[0])
				closers = append(closers, tags[1])
				continue
			}
			def, ok := b.markDef(mark)
			if !ok {
				continue
			}
			switch def.Type {
			case "link":
				fmt.Fprintf(w, `<a href="%s" target="_blank" rel="noopener noreferrer">`, template.HTMLEscapeString(safeURL(def.Href)))
				closers = append(closers, "</a>")
			case "internalLink":
				if def.Slug == "" {
					continue
				}
				fmt.Fprintf(w, `<a href="/posts/%s">`, template.HTMLEscapeString(url.PathEscape(string(def.Slug))))
				closers = append(closers, "</a>")
			}
		}
		w.text(span.Text)
		for i := len(closers) - 1; i >= 0; i-- {
			w.WriteString(closers[i])
		}
	}
}

// safeURL keeps web and mail links and replaces anything else with "#".
func safeURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "#"
	}
	switch u.Scheme {
	case "http", "https", "mailto", "":
		return u.String()
	}
	return "#"
}

// imageURL resolves an asset to a URL, building the CDN address from an
// asset reference such as image-<id>-<w>x<h>-<ext>.
func (r Renderer) imageURL(a *Asset) string {
	if a == nil {
		return ""
	}
	if a.URL != "" {
		return a.URL
	}
	parts := strings.Split(a.Ref, "-")
	if len(parts) != 4 || parts[0] != "image" || r.ProjectID == "" {
		return ""
	}
	return fmt.Sprintf("https://cdn.sanity.io/images/%s/%s/%s-%s.%s", r.ProjectID, r.Dataset, parts[1], parts[2], parts[3])
}

func (r Renderer) writeImage(w *writer, b Block) {
	src := r.imageURL(b.Asset)
	if src == "" {
		return
	}
	alt := b.Alt
	if alt == "" {
		alt = "Post image"
	}
	fmt.Fprintf(w, `<figure class="image"><img src="%s" alt="%s" loading="lazy">`,
		template.HTMLEscapeString(safeURL(src)), template.HTMLEscapeString(alt))
	if b.Caption != "" {
		w.WriteString("<figcaption>")
		w.text(b.Caption)
		w.WriteString("</figcaption>")
	}
	w.WriteString("</figure>")
}

func writeCode(w *writer, b Block) {
	label := b.Language
	if label == "" {
		label = "Code"
	}
	w.WriteString(`<div class="code-block"><div class="code-label">`)
	w.text(label)
	w.WriteString(`</div><pre><code`)
	if b.Language != "" {
		fmt.Fprintf(w, ` class="language-%s"`, template.HTMLEscapeString(b.Language))
	}
	w.WriteString(">")
	w.text(b.Code)
	w.WriteString("</code></pre></div>")
}

func writeCallout(w *writer, b Block) {
	tone := b.Tone
	if !calloutTones[tone] {
		tone = "default"
	}
	fmt.Fprintf(w, `<div class="callout callout-%s">`, tone)
	if b.Title != "" {
		w.WriteString("<h4>")
		w.text(b.Title)
		w.WriteString("</h4>")
	}
	w.WriteString("<div>")
	w.text(b.Text)
	w.WriteString("</div></div>")
}

func writeVideo(w *writer, b Block) {
	u, err := url.Parse(b.URL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return
	}
	title := b.Title
	if title == "" {
		title = "Embedded video"
	}
	fmt.Fprintf(w, `<div class="video"><iframe src="%s" title="%s" allowfullscreen></iframe>`,
		template.HTMLEscapeString(u.String()), template.HTMLEscapeString(title))
	if b.Caption != "" {
		w.WriteString("<p>")
		w.text(b.Caption)
		w.WriteString("</p>")
	}
	w.WriteString("</div>")
}

func writeTable(w *writer, b Block) {
	if len(b.Rows) == 0 {
		return
	}
	w.WriteString(`<div class="table"><table><thead><tr>`)
	for _, cell := range b.Rows[0].Cells {
		w.WriteString("<th>")
		w.text(cell)
		w.WriteString("</th>")
	}
	w.WriteString("</tr></thead><tbody>")
	for _, row := range b.Rows[1:] {
		w.WriteString("<tr>")
		for _, cell := range row.Cells {
			w.WriteString("<td>")
			w.text(cell)
			w.WriteString("</td>")
		}
		w.WriteString("</tr>")
	}
	w.WriteString("</tbody></table></div>")
}

func writeTOC(w *writer, headings []Heading) {
	w.WriteString(`<nav class="toc"><h4>Table of Contents</h4><ul>`)
	for _, h := range headings {
		class := "toc-h2"
		if h.Level == 3 {
			class = "toc-h3"
		}
		fmt.Fprintf(w, `<li class="%s"><a href="#%s">`, class, template.HTMLEscapeString(h.ID))
		w.text(h.Text)
		w.WriteString("</a></li>")
	}
	w.WriteString("</ul></nav>")
}
