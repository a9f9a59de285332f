package render

type tagInfo uint8

const (
	tagVoid   tagInfo = 1 << iota // no children, no closing tag
	tagInline                     // no line breaks in pretty output
)

var tags = map[string]tagInfo{
	"area": tagVoid, "base": tagVoid, "col": tagVoid, "embed": tagVoid,
	"hr": tagVoid, "img": tagVoid, "input": tagVoid, "link": tagVoid,
	"meta": tagVoid, "param": tagVoid, "source": tagVoid, "track": tagVoid,
	"br": tagVoid | tagInline, "wbr": tagVoid | tagInline,

	"a": tagInline, "abbr": tagInline, "b": tagInline, "bdi": tagInline,
	"bdo": tagInline, "cite": tagInline, "code": tagInline, "data": tagInline,
	"dfn": tagInline, "em": tagInline, "i": tagInline, "kbd": tagInline,
	"label": tagInline, "mark": tagInline, "q": tagInline, "s": tagInline,
	"samp": tagInline, "small": tagInline, "span": tagInline, "strong": tagInline,
	"sub": tagInline, "sup": tagInline, "time": tagInline, "u": tagInline,
	"var": tagInline,
}

func isVoidElement(tag string) bool   { return tags[tag]&tagVoid != 0 }
func isInlineElement(tag string) bool { return tags[tag]&tagInline != 0 }

// booleanAttrs render as a bare name when true and are omitted when false.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true, "async": true, "autofocus": true, "autoplay": true,
	"checked": true, "controls": true, "default": true, "defer": true,
	"disabled": true, "formnovalidate": true, "hidden": true, "ismap": true,
	"loop": true, "multiple": true, "muted": true, "novalidate": true,
	"open": true, "readonly": true, "required": true, "reversed": true,
	"selected": true,
}
