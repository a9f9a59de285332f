// Package render provides an in-memory live tree for vtree.
//
// Document implements vdom.Target. Each anchor is a Slot: a run of live
// nodes inside a parent element. Clearing a slot removes its nodes while the
// slot keeps its position, so a later mount at the same anchor lands in the
// same place. Serializing the document flattens slots in order.
//
// # Basic Usage
//
//	doc := render.NewDocument(render.Config{})
//	r := vdom.NewReconciler(doc)
//	if err := r.RenderRoot(tree, doc.Root()); err != nil {
//	    return err
//	}
//	html, err := doc.InnerHTML()
//
// # HTML Output
//
// Text and attribute values are escaped. Void elements have no closing tag,
// boolean attributes render as bare names, callback props are not rendered
// but mark the element with data-on-<event>. Full pages are written with
// WritePage.
//
// # Instrumentation
//
// Stats counts every operation applied to the document. With
// Config.RecordOps set, Ops also returns the operations in order.
package render
