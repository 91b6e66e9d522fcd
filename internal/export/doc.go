// Package export renders simulation outcomes for people: a summary block,
// an ASCII plot of the interval envelope, SVG/PNG interval charts and a
// standalone HTML report.
package export
