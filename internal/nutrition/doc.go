// Package nutrition resolves food names to per-serving nutrition facts.
//
// The resolver performs a two-step fetch against a nutrition search
// site: a site search that yields the detail-page reference for the
// best name match, then a fetch of that page to extract labeled
// nutrition fields by label text. Text scraping of third-party markup
// is brittle by nature, so it is fully isolated here; a markup change
// is a one-package fix.
//
// Within one pipeline run the resolver caches every outcome by
// normalized food name, so repeated items cost one external lookup and
// concurrent workers racing on the same name share a single in-flight
// request.
package nutrition
