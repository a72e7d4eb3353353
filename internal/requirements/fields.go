package requirements

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	FieldProcessor = "processor"
	FieldGraphics  = "graphics"
	FieldMemory    = "memory"
	FieldStorage   = "storage"
)

// fieldAliases lists, per field, the storefront labels that mean it, in
// order of preference. Older store pages say "Hard Drive" or "Video Card".
var fieldAliases = []struct {
	field  string
	labels []string
}{
	{FieldProcessor, []string{"processor", "cpu"}},
	{FieldGraphics, []string{"graphics", "video card", "video"}},
	{FieldMemory, []string{"memory", "ram"}},
	{FieldStorage, []string{"storage", "hard drive", "hard disk space", "disk space"}},
}

// ParseFields reads every <li> that starts with a <strong> label into a map
// from lowercased label (colon stripped) to lowercased value text. A label
// that repeats keeps its last value.
func ParseFields(markup string) (map[string]string, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse requirement markup: %w", err)
	}

	fields := make(map[string]string)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Li {
			if key, value, ok := labelledItem(n); ok {
				fields[key] = value
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return fields, nil
}

// Canonical folds aliased labels onto the builder's field names. When several
// labels of one field are present the most preferred one wins. Labels with no
// alias are kept as they are.
func Canonical(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	aliased := make(map[string]bool)
	for _, fa := range fieldAliases {
		for _, label := range fa.labels {
			aliased[label] = true
			if _, done := out[fa.field]; done {
				continue
			}
			if v, ok := fields[label]; ok {
				out[fa.field] = v
			}
		}
	}
	for k, v := range fields {
		if !aliased[k] {
			out[k] = v
		}
	}
	return out
}

func labelledItem(li *html.Node) (string, string, bool) {
	strong := findFirst(li, atom.Strong)
	if strong == nil {
		return "", "", false
	}

	label := collapse(text(strong))
	key := strings.ToLower(strings.TrimSpace(strings.TrimRight(label, ": ")))
	if key == "" {
		return "", "", false
	}

	full := collapse(text(li))
	value := strings.Replace(full, label, "", 1)
	value = strings.ToLower(strings.Trim(value, ": "))
	return key, value, true
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
