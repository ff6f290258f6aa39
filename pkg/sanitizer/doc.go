// Package sanitizer cleans user-supplied text before it is stored.
//
// StripHTML removes all markup using a bluemonday strict policy. PlainText
// and Label combine it with whitespace handling for multi-line bodies and
// single-line fields. Apply and Compose build custom pipelines:
//
//	clean := sanitizer.Compose(sanitizer.StripHTML, sanitizer.SingleLine)
//	clean("  <b>Ana</b>\n Lopez ") // "Ana Lopez"
package sanitizer
