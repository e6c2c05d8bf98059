package http

import (
	"encoding/json"
	"html/template"

	"station-console/internal/web"
)

var pageFuncs = template.FuncMap{
	// json renders a row payload for a data attribute; html/template escapes
	// the quotes for the attribute context.
	"json": func(v any) string {
		b, err := json.Marshal(v)
		if err != nil {
			return "{}"
		}
		return string(b)
	},
}

func parsePage() *template.Template {
	return template.Must(template.New("maintenance").Funcs(pageFuncs).Parse(maintenanceTemplate))
}

const maintenanceTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}} - Station Console</title>
    <style>` + web.BaseCSS + `</style>
</head>
<body>
    <nav class="navbar">
        <strong>Station Console</strong>
        <div>
            <a href="/admin/maintenance">Maintenance</a>
            {{if .Subject}}<span class="text-muted" style="margin-left: 1rem;">{{.Subject}}</span>{{end}}
            <a href="/logout">Sign out</a>
        </div>
    </nav>

    <div class="container">
        {{with .Flash}}<div class="alert alert-{{.Kind}}">{{.Message}}</div>{{end}}

        <div class="page-header">
            <h1>{{.Title}}</h1>
            <button class="btn btn-primary" type="button" onclick="openAddModal()">+ Report Malfunction</button>
        </div>

        <div class="card">
            <div class="card-header" style="display: flex; justify-content: space-between; align-items: center;">
                <h2>Reported Malfunctions</h2>
                <div class="btn-group">
                    <a class="btn btn-sm btn-secondary" href="/admin/maintenance/export.csv">CSV</a>
                    <a class="btn btn-sm btn-secondary" href="/admin/maintenance/export.xlsx">XLSX</a>
                    <a class="btn btn-sm btn-secondary" href="/admin/maintenance/export.pdf">PDF</a>
                </div>
            </div>
            <div class="card-body">
                <table>
                    <thead>
                    <tr>
                        <th>ID</th>
                        <th>Station</th>
                        <th>Description</th>
                        <th>Status</th>
                        <th>Actions</th>
                    </tr>
                    </thead>
                    <tbody>
                    {{range .Malfunctions}}
                    <tr id="malfunction-{{.ID}}">
                        <td>{{.ID}}</td>
                        <td>{{if .HasStation}}{{.AddressStreet}}, {{.AddressCity}}{{else}}<span class="text-muted">Not assigned</span>{{end}}</td>
                        <td>{{.Description}}</td>
                        <td><span class="badge bg-{{.State.Badge}}">{{.State.Label}}</span></td>
                        <td>
                            <div class="btn-group">
                                <button class="btn btn-sm btn-primary update-malfunction" type="button"
                                        data-malfunction="{{json .}}" onclick="openUpdateModal(this)">Edit</button>
                                <form method="POST" action="/admin/maintenance" class="d-inline"
                                      onsubmit="return confirm('Are you sure you want to delete this malfunction?');">
                                    <input type="hidden" name="csrf_token" value="{{$.CSRFToken}}">
                                    <input type="hidden" name="action" value="delete_malfunction">
                                    <input type="hidden" name="malfunction_id" value="{{.ID}}">
                                    <button type="submit" class="btn btn-sm btn-danger">Delete</button>
                                </form>
                            </div>
                        </td>
                    </tr>
                    {{else}}
                    <tr><td colspan="5" class="text-muted">No malfunctions reported.</td></tr>
                    {{end}}
                    </tbody>
                </table>
            </div>
        </div>
    </div>

    <div id="add-malfunction-modal" class="modal-overlay" onclick="if(event.target===this)closeModals()">
        <div class="modal-content">
            <div class="modal-header">
                <h2>Report Malfunction</h2>
                <button class="modal-close" type="button" onclick="closeModals()">&times;</button>
            </div>
            <form method="POST" action="/admin/maintenance">
                <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
                <input type="hidden" name="action" value="add_malfunction">
                <div class="modal-body">
                    <div class="form-group">
                        <label>Station</label>
                        <select name="station_id" class="form-control" required>
                            <option value="">Select a station</option>
                            {{range .Stations}}<option value="{{.ID}}">{{.Label}}</option>{{end}}
                        </select>
                    </div>
                    <div class="form-group">
                        <label>Description</label>
                        <textarea name="description" class="form-control" rows="4" required></textarea>
                    </div>
                </div>
                <div class="modal-footer">
                    <button type="button" class="btn btn-secondary" onclick="closeModals()">Cancel</button>
                    <button type="submit" class="btn btn-primary">Report Malfunction</button>
                </div>
            </form>
        </div>
    </div>

    <div id="update-malfunction-modal" class="modal-overlay" onclick="if(event.target===this)closeModals()">
        <div class="modal-content">
            <div class="modal-header">
                <h2>Update Malfunction</h2>
                <button class="modal-close" type="button" onclick="closeModals()">&times;</button>
            </div>
            <form method="POST" action="/admin/maintenance">
                <input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
                <input type="hidden" name="action" value="update_malfunction">
                <input type="hidden" name="malfunction_id" id="update_malfunction_id">
                <div class="modal-body">
                    <div class="form-group">
                        <label>Description</label>
                        <textarea name="description" id="update_description" class="form-control" rows="4"></textarea>
                    </div>
                    <div class="form-group">
                        <label>Status</label>
                        <select name="state" id="update_state" class="form-control" required>
                            {{range .States}}<option value="{{.}}">{{.Label}}</option>{{end}}
                        </select>
                    </div>
                    <p><strong>Station:</strong> <span id="update_station"></span></p>
                </div>
                <div class="modal-footer">
                    <button type="button" class="btn btn-secondary" onclick="closeModals()">Cancel</button>
                    <button type="submit" class="btn btn-primary">Update Malfunction</button>
                </div>
            </form>
        </div>
    </div>

    <script>
    function openAddModal() {
        document.getElementById('add-malfunction-modal').classList.add('active');
    }
    function openUpdateModal(button) {
        var m = JSON.parse(button.dataset.malfunction);
        document.getElementById('update_malfunction_id').value = m.malfunction_id;
        document.getElementById('update_description').value = m.description;
        document.getElementById('update_state').value = m.state;
        document.getElementById('update_station').textContent =
            m.address_street && m.address_city ? m.address_street + ', ' + m.address_city : 'Not assigned';
        document.getElementById('update-malfunction-modal').classList.add('active');
    }
    function closeModals() {
        document.querySelectorAll('.modal-overlay').forEach(function(el) { el.classList.remove('active'); });
    }
    document.addEventListener('keydown', function(e) {
        if (e.key === 'Escape') closeModals();
    });
    </script>
</body>
</html>`
