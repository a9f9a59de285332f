package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/vtree/pkg/vdom"
)

func TestHTMLEscaping(t *testing.T) {
	doc := NewDocument(Config{})
	mount(t, doc, vdom.El("p", vdom.Attrs(vdom.A("title", `say "hi"`+"\n")),
		"<script>alert('xss')</script>"))

	got := innerHTML(t, doc)
	want := `<p title="say &quot;hi&quot;&#10;">&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;</p>`
	if got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}
}

func TestHTMLAttributes(t *testing.T) {
	tests := []struct {
		name  string
		attrs vdom.Props
		want  string
	}{
		{"insertion order", vdom.Attrs(vdom.A("id", "a"), vdom.A("class", "b")), `<div id="a" class="b"></div>`},
		{"boolean true", vdom.Attrs(vdom.A("disabled", true)), `<div disabled></div>`},
		{"boolean false", vdom.Attrs(vdom.A("disabled", false)), `<div></div>`},
		{"non-boolean bool", vdom.Attrs(vdom.A("data-open", true)), `<div data-open="true"></div>`},
		{"numbers", vdom.Attrs(vdom.A("tabindex", 2), vdom.A("data-r", 0.5)), `<div tabindex="2" data-r="0.5"></div>`},
		{"nil skipped", vdom.Attrs(vdom.A("title", nil)), `<div></div>`},
		{"key skipped", vdom.Attrs(vdom.A("key", "k1")), `<div></div>`},
		{"internal skipped", vdom.Attrs(vdom.A("_ref", "x")), `<div></div>`},
		{"callback marker", vdom.Attrs(vdom.A("onClick", func() {})), `<div data-on-click="true"></div>`},
		{"callback without event name", vdom.Attrs(vdom.A("render", func() {})), `<div></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument(Config{})
			mount(t, doc, vdom.El("div", tt.attrs))
			if got := innerHTML(t, doc); got != tt.want {
				t.Errorf("InnerHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTMLVoidElements(t *testing.T) {
	doc := NewDocument(Config{})
	mount(t, doc, vdom.El("p", nil, "a", vdom.El("br", nil), vdom.El("img", vdom.Attrs(vdom.A("src", "x.png")))))

	if got := innerHTML(t, doc); got != `<p>a<br><img src="x.png"></p>` {
		t.Errorf("InnerHTML() = %q", got)
	}
}

func TestHTMLPretty(t *testing.T) {
	doc := NewDocument(Config{Pretty: true})
	mount(t, doc, vdom.El("ul", nil, vdom.El("li", nil, "one"), vdom.El("li", nil, vdom.El("em", nil, "two"))))

	got := innerHTML(t, doc)
	for _, want := range []string{"<ul>\n", "  <li>\n    one\n  </li>\n", "<em>two</em>", "</ul>\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("pretty output missing %q:\n%s", want, got)
		}
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteHTMLError(t *testing.T) {
	doc := NewDocument(Config{})
	mount(t, doc, vdom.El("p", nil, "x"))
	if err := doc.WriteHTML(failingWriter{}); err == nil {
		t.Error("expected write error")
	}
}

func TestWritePage(t *testing.T) {
	doc := NewDocument(Config{})
	mount(t, doc, vdom.El("h1", nil, "Hello"))

	var buf bytes.Buffer
	err := doc.WritePage(&buf, PageData{
		Title:       "A & B",
		StyleSheets: []string{"/app.css"},
		Scripts:     []string{"console.log(1)"},
	})
	if err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>A &amp; B</title>",
		`<link rel="stylesheet" href="/app.css">`,
		"<body><h1>Hello</h1></body>",
		"<script>console.log(1)</script>",
		"</html>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q:\n%s", want, out)
		}
	}
}

func TestStats(t *testing.T) {
	s := Stats{Clears: 1, Materialized: 2, ChildAnchors: 3, Appends: 4, AnchorsAfter: 5}
	if s.Total() != 15 {
		t.Errorf("Total() = %d", s.Total())
	}
	if s.Mutations() != 5 {
		t.Errorf("Mutations() = %d", s.Mutations())
	}
}
