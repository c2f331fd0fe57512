// Package richtext implements the inline rich-text cells of the page: the
// restricted markup they store, the editing state machine of a single cell
// and the floating formatting toolbar.
package richtext

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Format is a set of inline styles.
type Format uint8

const (
	Bold Format = 1 << iota
	Italic
	Underline
)

// Run is a span of text sharing one format. A line break is a "\n" in Text.
type Run struct {
	Text   string
	Format Format
}

// Command is a toolbar formatting command.
type Command string

const (
	CmdBold         Command = "bold"
	CmdItalic       Command = "italic"
	CmdUnderline    Command = "underline"
	CmdRemoveFormat Command = "removeFormat"
)

func (c Command) format() (Format, bool) {
	switch c {
	case CmdBold:
		return Bold, true
	case CmdItalic:
		return Italic, true
	case CmdUnderline:
		return Underline, true
	}
	return 0, false
}

// Valid reports whether c is a known command.
func (c Command) Valid() bool {
	_, ok := c.format()
	return ok || c == CmdRemoveFormat
}

// Range is a half-open selection in rune offsets of the plain text.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

var tagFormats = map[string]Format{
	"b":      Bold,
	"strong": Bold,
	"i":      Italic,
	"em":     Italic,
	"u":      Underline,
}

// dropped elements lose their content along with their tags.
var dropped = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"object":   true,
	"noscript": true,
	"template": true,
	"textarea": true,
	"title":    true,
}

// Parse splits markup into formatted runs. Tags other than the inline
// emphasis set and <br> are dropped while their text is kept, except inside
// script-like elements whose content is discarded.
func Parse(markup string) []Run {
	z := html.NewTokenizer(strings.NewReader(markup))
	depth := map[Format]int{}
	skip := 0
	var runs []Run
	current := func() Format {
		var f Format
		for bit, n := range depth {
			if n > 0 {
				f |= bit
			}
		}
		return f
	}
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed tail; keep what was read.
			return merge(runs)
		case html.TextToken:
			if skip == 0 {
				runs = append(runs, Run{Text: string(z.Text()), Format: current()})
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if dropped[tag] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 {
				continue
			}
			if tag == "br" {
				runs = append(runs, Run{Text: "\n", Format: current()})
				continue
			}
			if f, ok := tagFormats[tag]; ok && tt == html.StartTagToken {
				depth[f]++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if dropped[string(name)] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if f, ok := tagFormats[string(name)]; ok && depth[f] > 0 {
				depth[f]--
			}
		}
	}
}

func merge(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Format == r.Format {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// Sanitize reduces arbitrary markup to the canonical subset a cell may
// store: text, <b>, <i>, <u> and <br>.
func Sanitize(markup string) string {
	return Render(Parse(markup))
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\n", "<br>")

// Render produces canonical markup for runs, nesting tags as b, i, u.
func Render(runs []Run) string {
	var b strings.Builder
	for _, r := range merge(runs) {
		open, closing := tags(r.Format)
		b.WriteString(open)
		b.WriteString(textEscaper.Replace(r.Text))
		b.WriteString(closing)
	}
	return b.String()
}

func tags(f Format) (string, string) {
	var open, closing []string
	for _, t := range []struct {
		bit  Format
		name string
	}{{Bold, "b"}, {Italic, "i"}, {Underline, "u"}} {
		if f&t.bit != 0 {
			open = append(open, fmt.Sprintf("<%s>", t.name))
			closing = append([]string{fmt.Sprintf("</%s>", t.name)}, closing...)
		}
	}
	return strings.Join(open, ""), strings.Join(closing, "")
}

// PlainText returns the text of markup without formatting.
func PlainText(markup string) string {
	var b strings.Builder
	for _, r := range Parse(markup) {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Apply runs cmd over the selected range of markup and returns the new
// markup. Bold, italic and underline toggle: when every selected rune
// already carries the style it is removed, otherwise it is added. An empty
// range leaves markup as is.
func Apply(markup string, sel Range, cmd Command) (string, error) {
	if !cmd.Valid() {
		return "", fmt.Errorf("unknown format command %q", cmd)
	}
	text, formats := explode(Parse(markup))
	start, end := clamp(sel.Start, len(text)), clamp(sel.End, len(text))
	if start > end {
		start, end = end, start
	}
	if start == end {
		return markup, nil
	}

	bit, toggles := cmd.format()
	if !toggles {
		for i := start; i < end; i++ {
			formats[i] = 0
		}
		return Render(implode(text, formats)), nil
	}
	all := true
	for i := start; i < end; i++ {
		if formats[i]&bit == 0 {
			all = false
			break
		}
	}
	for i := start; i < end; i++ {
		if all {
			formats[i] &^= bit
		} else {
			formats[i] |= bit
		}
	}
	return Render(implode(text, formats)), nil
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}

func explode(runs []Run) ([]rune, []Format) {
	var text []rune
	var formats []Format
	for _, r := range runs {
		for _, c := range r.Text {
			text = append(text, c)
			formats = append(formats, r.Format)
		}
	}
	return text, formats
}

func implode(text []rune, formats []Format) []Run {
	runs := make([]Run, 0, len(text))
	for i, c := range text {
		runs = append(runs, Run{Text: string(c), Format: formats[i]})
	}
	return merge(runs)
}
