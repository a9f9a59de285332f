// Package preview serves a live component tree over HTTP.
//
// Routes:
//
//	GET  /               full HTML page with a websocket client
//	GET  /fragment       markup below the document root
//	POST /state          JSON partial state merged into the root component
//	POST /reset          remount the root component with its initial state
//	POST /actions/{name} JSON arguments for a named action
//	GET  /ws             websocket stream of the markup after every cycle
//	GET  /metrics        Prometheus metrics, when a gatherer is configured
//	GET  /healthz        liveness
package preview
