package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"financas/internal/core"
	"financas/internal/csvimport"
	applog "financas/internal/log"
	"financas/internal/services"
)

const maxJSONBody = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

var badRequestErrors = []error{
	core.ErrEmptyDescription,
	core.ErrDescriptionTooLong,
	core.ErrEmptyCategory,
	core.ErrEmptyName,
	core.ErrInvalidAmount,
	core.ErrInvalidDate,
	core.ErrInvalidType,
	core.ErrTypeSignMismatch,
	core.ErrInvalidPaymentMethod,
	core.ErrInvalidStatus,
	core.ErrInvalidPeriod,
	core.ErrInvalidBrand,
	core.ErrInvalidLastDigits,
	core.ErrInvalidCardDay,
	services.ErrInvalidMonths,
	services.ErrBinaryUpload,
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNoOwner):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status >= http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", "status", status, "error", msg)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// handleError answers with the status of err. Internal errors are logged and
// their text is not sent to the client.
func handleError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}

	logger := applog.FromContext(r.Context())
	fields := applog.NewFields().WithOperation(op).WithError(err).WithOwner(ownerID(r))

	var ie *csvimport.ImportError
	if errors.As(err, &ie) {
		fields = fields.WithImport(ie.Imported, ie.Rejected, "aborted")
		logger.ErrorContext(r.Context(), "Import aborted", fields.ToSlice()...)
		writeJSON(w, status, importFailure{
			Error:    "import aborted by a storage failure",
			Imported: ie.Imported,
			Rejected: ie.Rejected,
			Line:     ie.Line,
		})
		return
	}

	logger.ErrorContext(r.Context(), "Operation failed", fields.ToSlice()...)
	writeJSON(w, status, errorBody{Error: "internal error"})
}

// decodeJSON reads a single JSON object and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
