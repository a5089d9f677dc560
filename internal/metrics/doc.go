// Package metrics records build observability for navtree.
//
// Components receive a Recorder; NoopRecorder is the default so callers never
// nil-check. The Prometheus implementation collects into a private registry
// and is flushed to a node_exporter textfile by WriteTextfile, since a build
// is a short-lived process with nothing to scrape.
package metrics
