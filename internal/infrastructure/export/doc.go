// Package export assembles the tire analysis report as an Excel workbook or
// a Word document.
//
// Both builders are pure: they take the analysis and the generation time and
// return the file bytes. Missing fields render as report.Placeholder and the
// safety score is colored by its severity in both formats.
package export
