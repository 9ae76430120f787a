// Package printing renders the dealer order sheet as HTML and, through a
// headless Chrome, as PDF.
package printing
