package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aircare/internal/database"
	"aircare/internal/metrics"
	"aircare/internal/models"
	"aircare/internal/service"
)

func (s *HTTPServer) handleDraft(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session header is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.drafts.Get(r.Context(), sessionID))
	case http.MethodPatch:
		var patch map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		writeJSON(w, http.StatusOK, s.drafts.SetFields(r.Context(), sessionID, patch))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleDraftStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session header is required")
		return
	}

	var body struct {
		Status int `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	draft, err := s.drafts.SetStatus(r.Context(), sessionID, body.Status)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *HTTPServer) handleDraftPartner(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session header is required")
		return
	}

	switch r.Method {
	case http.MethodPost:
		var info models.PartnerInfo
		if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if info.UID == "" {
			writeError(w, http.StatusBadRequest, "partner_uid is required")
			return
		}
		writeJSON(w, http.StatusOK, s.drafts.SelectPartner(r.Context(), sessionID, info))
	case http.MethodDelete:
		writeJSON(w, http.StatusOK, s.drafts.ClearPartner(r.Context(), sessionID))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleDraftReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session header is required")
		return
	}

	writeJSON(w, http.StatusOK, s.drafts.Reset(r.Context(), sessionID))
}

func (s *HTTPServer) handleNavigation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session header is required")
		return
	}

	var body struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	s.guard.Observe(r.Context(), sessionID, body.Path)
	writeJSON(w, http.StatusOK, map[string]bool{"in_scope": s.guard.InScope(body.Path)})
}

func (s *HTTPServer) handleRequests(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleSubmit(w, r)
	case http.MethodGet:
		s.handleRequestsByPhone(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID := s.sessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session header is required")
		return
	}

	var input models.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	input.SessionID = sessionID

	requestID, err := s.submitter.Submit(r.Context(), input)
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			metrics.IncSubmission("validation")
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error": ve.Message,
				"field": ve.Field,
			})
		case errors.Is(err, service.ErrAgreementsRequired):
			metrics.IncSubmission("validation")
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, service.ErrSubmitInFlight):
			writeError(w, http.StatusConflict, err.Error())
		default:
			metrics.IncSubmission("error")
			writeError(w, http.StatusBadGateway, "submission failed, please retry")
		}
		return
	}

	metrics.IncSubmission("ok")
	writeJSON(w, http.StatusCreated, map[string]string{"request_id": requestID})
}

func (s *HTTPServer) handleRequestsByPhone(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	requests, err := s.requests.GetRequestsByPhone(r.Context(), phone)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load requests")
		return
	}
	if requests == nil {
		requests = []*models.ServiceRequest{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

// handleRequestByID serves GET /api/v1/requests/{id} and
// PUT /api/v1/requests/{id}/status.
func (s *HTTPServer) handleRequestByID(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/requests/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if strings.HasSuffix(rest, "/status") {
		s.handleRequestStatus(w, r, strings.TrimSuffix(rest, "/status"))
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	req, err := s.requests.GetRequest(r.Context(), rest)
	if err != nil {
		if errors.Is(err, database.ErrRequestNotFound) {
			writeError(w, http.StatusNotFound, "request not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load request")
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *HTTPServer) handleRequestStatus(w http.ResponseWriter, r *http.Request, requestID string) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if requestID == "" || strings.Contains(requestID, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var body struct {
		Status int `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := s.requests.UpdateRequestStatus(r.Context(), requestID, body.Status)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"result": "updated"})
	case errors.Is(err, service.ErrInvalidStatus), errors.Is(err, database.ErrInvalidStatus):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, database.ErrRequestNotFound):
		writeError(w, http.StatusNotFound, "request not found")
	default:
		writeError(w, http.StatusInternalServerError, "failed to update status")
	}
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, err := parseDateParam(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateParam(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	// end date is inclusive for callers
	end = end.AddDate(0, 0, 1)

	filePath, err := s.exporter.ExportRequests(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export file unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(filePath))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, errors.New(name + " is required")
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New("invalid " + name + " format; expected YYYY-MM-DD")
	}
	return t, nil
}
