// Package page writes figures as standalone HTML documents.
//
// The page loads plotly.js from a CDN and embeds the figure JSON in an
// inline script, so the file can be opened directly in a browser:
//
//	err := page.Write(f, fig, page.Options{Title: "Population"})
//
// The figure JSON is escaped for script context; titles and labels cannot
// close the script element.
package page
