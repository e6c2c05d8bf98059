package http

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"station-console/internal/audit"
	"station-console/internal/auth"
	"station-console/internal/maintenance/application"
	maintenance "station-console/internal/maintenance/domain"
	masterdata "station-console/internal/masterdata/domain"
	"station-console/internal/observability/metrics"
	"station-console/internal/web"
)

// PagePath is the maintenance page route. Every POST redirects back here.
const PagePath = "/admin/maintenance"

// Flash messages shown after a POST.
const (
	msgInvalidRequest   = "Invalid request."
	msgInvalidID        = "Invalid malfunction id."
	msgDescriptionEmpty = "Description is required."
	msgReported         = "Malfunction reported successfully."
	msgDatabaseError    = "Database error: "
	msgUpdated          = "Malfunction updated successfully."
	msgUpdateFailed     = "Error updating malfunction."
	msgDeleted          = "Malfunction deleted successfully."
	msgDeleteFailed     = "Error deleting malfunction."
)

// Handler serves the maintenance page and its exports.
type Handler struct {
	service     *application.Service
	sessions    *auth.SessionManager
	auditLogger audit.Logger
	logger      *log.Logger
	page        *template.Template
	now         func() time.Time
}

// NewHandler constructs a maintenance page handler. auditLogger may be nil.
func NewHandler(service *application.Service, sessions *auth.SessionManager, auditLogger audit.Logger, logger *log.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("maintenance handler: nil service")
	}
	if sessions == nil {
		return nil, errors.New("maintenance handler: nil session manager")
	}
	return &Handler{
		service:     service,
		sessions:    sessions,
		auditLogger: auditLogger,
		logger:      logger,
		page:        parsePage(),
		now:         time.Now,
	}, nil
}

type pageData struct {
	Title        string
	Subject      string
	Flash        *auth.Flash
	CSRFToken    string
	Stations     []masterdata.Station
	Malfunctions []maintenance.MalfunctionView
	States       []maintenance.State
}

// ServeHTTP handles /admin/maintenance and /admin/maintenance/export.*.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch path {
	case PagePath:
		switch r.Method {
		case http.MethodGet:
			h.handlePage(w, r)
		case http.MethodPost:
			h.handlePost(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case PagePath + "/export.csv":
		h.handleExport(w, r, "csv")
	case PagePath + "/export.xlsx":
		h.handleExport(w, r, "xlsx")
	case PagePath + "/export.pdf":
		h.handleExport(w, r, "pdf")
	default:
		http.NotFound(w, r)
	}
}

// authorize returns the admin session for r. Without one it answers the
// request itself and returns nil.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) *auth.Session {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		loaded, err := h.sessions.Load(r)
		if err != nil {
			http.Redirect(w, r, auth.DefaultLoginPath, http.StatusSeeOther)
			return nil
		}
		session = loaded
	}
	if !auth.RoleAtLeast(session.Role, auth.RoleAdmin) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil
	}
	return session
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	session := h.authorize(w, r)
	if session == nil {
		return
	}

	stations, err := h.service.ListStations(r.Context())
	if err != nil {
		h.logf("maintenance stations error: %v", err)
		http.Error(w, "maintenance list error", http.StatusInternalServerError)
		return
	}
	malfunctions, err := h.service.ListMalfunctions(r.Context())
	if err != nil {
		h.logf("maintenance list error: %v", err)
		http.Error(w, "maintenance list error", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:        "Maintenance",
		Subject:      session.Subject,
		Flash:        session.PopFlash(),
		CSRFToken:    session.CSRFToken,
		Stations:     stations,
		Malfunctions: malfunctions,
		States:       maintenance.States,
	}
	if data.Flash != nil {
		// Persist the cleared flash slot before the body is written.
		if err := h.sessions.Save(w, session); err != nil {
			h.logf("maintenance session error: %v", err)
		}
	}
	if err := web.Render(w, h.page, data); err != nil {
		h.logf("maintenance render error: %v", err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	session := h.authorize(w, r)
	if session == nil {
		return
	}
	r = r.WithContext(auth.WithSession(r.Context(), session))
	defer h.redirect(w, r, session)

	if err := r.ParseForm(); err != nil || !session.ValidCSRF(r.PostFormValue("csrf_token")) {
		metrics.IncCSRFRejection()
		h.logf("maintenance csrf rejected from %s", audit.ClientIP(r))
		session.SetFlash(auth.FlashError, msgInvalidRequest)
		return
	}

	switch r.PostFormValue("action") {
	case application.ActionAdd:
		h.addMalfunction(r, session)
	case application.ActionUpdate:
		h.updateMalfunction(r, session)
	case application.ActionDelete:
		h.deleteMalfunction(r, session)
	}
}

func (h *Handler) addMalfunction(r *http.Request, session *auth.Session) {
	description := application.SanitizeInput(r.PostFormValue("description"))
	stationID := application.ParseStationID(r.PostFormValue("station_id"))

	malfunction, err := h.service.ReportMalfunction(r.Context(), application.ReportInput{
		Description: description,
		StationID:   stationID,
	})
	if err != nil {
		if errors.Is(err, maintenance.ErrEmptyDescription) {
			session.SetFlash(auth.FlashError, msgDescriptionEmpty)
			return
		}
		h.logf("maintenance add error: %v", err)
		session.SetFlash(auth.FlashError, msgDatabaseError+err.Error())
		return
	}

	session.SetFlash(auth.FlashSuccess, msgReported)
	meta := map[string]any{
		"report_id":   malfunction.ReportID,
		"operator_id": h.service.OperatorID(),
	}
	if stationID > 0 {
		meta["station_id"] = stationID
	}
	h.logAudit(r, audit.MalfunctionEntry(audit.ActionMalfunctionReport, malfunction.ID, meta))
}

func (h *Handler) updateMalfunction(r *http.Request, session *auth.Session) {
	id, err := application.ParseID(r.PostFormValue("malfunction_id"))
	if err != nil {
		session.SetFlash(auth.FlashError, msgInvalidID)
		return
	}
	input := application.UpdateInput{
		ID:          id,
		Description: application.SanitizeInput(r.PostFormValue("description")),
		State:       maintenance.State(application.SanitizeInput(r.PostFormValue("state"))),
	}

	affected, err := h.service.UpdateMalfunction(r.Context(), input)
	if err != nil {
		h.logf("maintenance update error: id=%d err=%v", id, err)
		session.SetFlash(auth.FlashError, msgUpdateFailed)
		return
	}

	session.SetFlash(auth.FlashSuccess, msgUpdated)
	h.logAudit(r, audit.MalfunctionEntry(audit.ActionMalfunctionUpdate, id, map[string]any{
		"state":         string(input.State),
		"rows_affected": affected,
	}))
}

func (h *Handler) deleteMalfunction(r *http.Request, session *auth.Session) {
	id, err := application.ParseID(r.PostFormValue("malfunction_id"))
	if err != nil {
		session.SetFlash(auth.FlashError, msgInvalidID)
		return
	}

	affected, err := h.service.DeleteMalfunction(r.Context(), id)
	if err != nil {
		h.logf("maintenance delete error: id=%d err=%v", id, err)
		session.SetFlash(auth.FlashError, msgDeleteFailed)
		return
	}

	session.SetFlash(auth.FlashSuccess, msgDeleted)
	h.logAudit(r, audit.MalfunctionEntry(audit.ActionMalfunctionDelete, id, map[string]any{"rows_affected": affected}))
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, session *auth.Session) {
	if err := h.sessions.Save(w, session); err != nil {
		h.logf("maintenance session error: %v", err)
	}
	http.Redirect(w, r, PagePath, http.StatusSeeOther)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request, format string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.authorize(w, r) == nil {
		return
	}
	result := metrics.ResultSuccess
	defer func() {
		metrics.IncExport(format, result)
	}()

	rows, err := h.service.ListMalfunctions(r.Context())
	if err != nil {
		result = metrics.ResultError
		h.logf("maintenance export error: %v", err)
		http.Error(w, "export error", http.StatusInternalServerError)
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case "csv":
		data, err = BuildMalfunctionsCSV(rows)
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		data, err = BuildMalfunctionsXLSX(rows)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, err = BuildMalfunctionsPDF(rows, h.now())
		contentType = "application/pdf"
	}
	if err != nil {
		result = metrics.ResultError
		h.logf("maintenance export %s error: %v", format, err)
		http.Error(w, "export "+format+" error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="malfunctions.`+format+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	h.logAudit(r, audit.ListEntry(audit.ActionMalfunctionExport, map[string]any{"format": format, "rows": len(rows)}))
}

// logAudit is best-effort; failures never change the flash outcome.
func (h *Handler) logAudit(r *http.Request, entry audit.Entry) {
	if h.auditLogger == nil {
		return
	}
	entry.Actor = auth.SubjectFromContext(r.Context())
	entry.Role = string(auth.RoleFromContext(r.Context()))
	entry.IP = audit.ClientIP(r)
	entry.UserAgent = r.UserAgent()
	if err := h.auditLogger.Log(r.Context(), entry); err != nil {
		h.logf("maintenance audit error: %v", err)
	}
}

func (h *Handler) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
