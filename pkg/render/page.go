package render

import (
	"fmt"
	"io"
)

// PageData describes a complete HTML page wrapping a Document.
type PageData struct {
	// Title is the page title.
	Title string

	// Lang is the language attribute of the html element. Defaults to "en".
	Lang string

	// StyleSheets are paths to external stylesheets.
	StyleSheets []string

	// Scripts are inline scripts written after the body.
	Scripts []string
}

// WritePage writes d as the body of a full HTML document.
func (d *Document) WritePage(w io.Writer, page PageData) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}

	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", escapeAttr(lang)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "<meta charset=\"utf-8\">\n"); err != nil {
		return err
	}
	if page.Title != "" {
		if _, err := fmt.Fprintf(w, "<title>%s</title>\n", escapeHTML(page.Title)); err != nil {
			return err
		}
	}
	for _, href := range page.StyleSheets {
		if _, err := fmt.Fprintf(w, "<link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "</head>\n"); err != nil {
		return err
	}

	if err := d.WriteHTML(w); err != nil {
		return err
	}

	for _, script := range page.Scripts {
		if _, err := fmt.Fprintf(w, "<script>%s</script>\n", script); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</html>\n")
	return err
}
