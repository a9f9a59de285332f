package render

import (
	"bufio"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
)

// HTML returns the document including the root element.
func (d *Document) HTML() (string, error) {
	var b strings.Builder
	if err := d.WriteHTML(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// InnerHTML returns the content of the root element.
func (d *Document) InnerHTML() (string, error) {
	var b strings.Builder
	if err := d.WriteInnerHTML(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteHTML streams the document including the root element to w.
func (d *Document) WriteHTML(w io.Writer) error {
	bw := bufio.NewWriter(w)
	d.writeNode(bw, d.root, 0)
	return bw.Flush()
}

// WriteInnerHTML streams the content of the root element to w.
func (d *Document) WriteInnerHTML(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, c := range d.root.Children() {
		d.writeNode(bw, c, 0)
	}
	return bw.Flush()
}

// bufio.Writer keeps the first write error and reports it from Flush, so
// the write helpers below do not check errors individually.
func (d *Document) writeNode(w *bufio.Writer, n *Node, depth int) {
	if n.IsText {
		w.WriteString(escapeHTML(n.Text))
		return
	}

	pretty := d.config.Pretty
	if pretty && depth > 0 {
		d.writeIndent(w, depth)
	}
	w.WriteByte('<')
	w.WriteString(n.Tag)
	writeAttrs(w, n)
	w.WriteByte('>')

	if isVoidElement(n.Tag) {
		if pretty {
			w.WriteByte('\n')
		}
		return
	}

	children := n.Children()
	block := pretty && len(children) > 0 && !isInlineElement(n.Tag)
	if block {
		w.WriteByte('\n')
	}
	for _, c := range children {
		if block && c.IsText {
			d.writeIndent(w, depth+1)
			d.writeNode(w, c, depth+1)
			w.WriteByte('\n')
			continue
		}
		d.writeNode(w, c, depth+1)
	}
	if block {
		d.writeIndent(w, depth)
	}
	w.WriteString("</")
	w.WriteString(n.Tag)
	w.WriteByte('>')
	if pretty {
		w.WriteByte('\n')
	}
}

func writeAttrs(w *bufio.Writer, n *Node) {
	var events []string
	for _, a := range n.Attrs {
		key, value := a.Key, a.Value
		if key == "" || key == "key" || strings.HasPrefix(key, "_") {
			continue
		}
		if isCallback(value) {
			if len(key) > 2 && strings.EqualFold(key[:2], "on") {
				events = append(events, strings.ToLower(key[2:]))
			}
			continue
		}
		if booleanAttrs[key] {
			if b, ok := value.(bool); ok {
				if b {
					w.WriteByte(' ')
					w.WriteString(key)
				}
				continue
			}
		}
		s, ok := attrToString(value)
		if !ok {
			continue
		}
		fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(s))
	}
	for _, e := range events {
		fmt.Fprintf(w, ` data-on-%s="true"`, e)
	}
}

func isCallback(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// attrToString converts an attribute value to its rendered form. Nil values
// are not rendered.
func attrToString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func (d *Document) writeIndent(w *bufio.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString(d.config.Indent)
	}
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeHTML escapes text content.
func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

// escapeAttr escapes attribute values, including whitespace that could
// break attribute parsing.
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
