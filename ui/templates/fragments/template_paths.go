// Package fragments provides template name constants for the page and its HTMX-style fragments
package fragments

const (
	// IndexPage is the full page hosting the sketch pad and result table.
	IndexPage = "index.html"

	// ResultRows renders the <tr> rows of the result table body.
	ResultRows = "result_rows.html"
)
