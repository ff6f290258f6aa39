// Package templates renders email bodies from files on an fs.FS.
//
// HTML files are parsed with html/template so variables are escaped. Files
// with a .md extension are executed with text/template and converted to HTML
// with goldmark. Compiled templates are cached per path for the process
// lifetime unless WithCache(false) is passed; restart to pick up edits.
//
//	r := templates.New(os.DirFS("templates"))
//	html, err := r.Render("feedback/submitter-confirmation.html", map[string]any{
//		"firstName": "Ana",
//	})
//
// Default helpers: upper, lower, title, stars, default, formatDate, truncate
// and join.
package templates
