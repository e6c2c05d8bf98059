// Package web holds the page chrome shared by the console's server-rendered pages.
package web

import (
	"bytes"
	"html/template"
	"net/http"
)

// BaseCSS is inlined into every console page.
const BaseCSS = `
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: #f4f6f9; color: #222; min-height: 100vh; }
.navbar { background: #1f2d3d; color: #fff; padding: 0.75rem 1.5rem; display: flex; justify-content: space-between; align-items: center; }
.navbar a { color: #cfd8e3; text-decoration: none; margin-left: 1rem; }
.navbar a:hover { color: #fff; }
.container { max-width: 1100px; margin: 1.5rem auto; padding: 0 1rem; }
.page-header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 1rem; }
h1 { font-size: 1.5rem; }
h2 { font-size: 1.15rem; }
.card { background: #fff; border-radius: 6px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); margin-bottom: 1rem; }
.card-header { padding: 0.75rem 1rem; border-bottom: 1px solid #e5e8ec; }
.card-body { padding: 1rem; }
table { width: 100%; border-collapse: collapse; }
th, td { padding: 0.5rem; text-align: left; border-bottom: 1px solid #e5e8ec; vertical-align: middle; }
th { color: #666; font-weight: 600; font-size: 0.85rem; }
.text-muted { color: #888; }
.btn { display: inline-flex; align-items: center; justify-content: center; border: none; border-radius: 4px; padding: 0.5rem 0.9rem; font-size: 0.95rem; cursor: pointer; color: #fff; text-decoration: none; }
.btn-sm { padding: 0.25rem 0.55rem; font-size: 0.85rem; }
.btn-primary { background: #2d6cdf; }
.btn-secondary { background: #6c757d; }
.btn-danger { background: #c0392b; }
.btn-group { display: flex; gap: 0.25rem; }
.badge { display: inline-block; border-radius: 4px; color: #fff; font-size: 0.875rem; padding: 0.5em 0.75em; }
.bg-success { background: #27ae60; }
.bg-warning { background: #f39c12; }
.bg-danger { background: #c0392b; }
.alert { padding: 0.75rem 1rem; border-radius: 4px; margin-bottom: 1rem; color: #fff; }
.alert-success { background: #27ae60; }
.alert-error { background: #c0392b; }
.form-group { margin-bottom: 1rem; }
.form-group label { display: block; margin-bottom: 0.25rem; font-weight: 600; }
.form-control { width: 100%; padding: 0.5rem; border: 1px solid #ccd3db; border-radius: 4px; font-size: 0.95rem; font-family: inherit; }
.d-inline { display: inline; }
.modal-overlay { display: none; position: fixed; top: 0; left: 0; width: 100%; height: 100%; background: rgba(0,0,0,0.5); z-index: 1000; justify-content: center; align-items: center; }
.modal-overlay.active { display: flex; }
.modal-content { background: #fff; border-radius: 6px; width: 480px; max-width: 95%; max-height: 90%; overflow: auto; }
.modal-header, .modal-footer { padding: 0.75rem 1rem; display: flex; justify-content: space-between; align-items: center; }
.modal-header { border-bottom: 1px solid #e5e8ec; }
.modal-footer { border-top: 1px solid #e5e8ec; justify-content: flex-end; gap: 0.5rem; }
.modal-body { padding: 1rem; }
.modal-close { background: none; border: none; font-size: 1.5rem; cursor: pointer; color: #888; }
`

// Render executes tpl into a buffer first so template errors never produce a
// half-written page.
func Render(w http.ResponseWriter, tpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}
