package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	applog "financas/internal/log"
)

const defaultUploadName = "upload.csv"

// handleImport accepts a multipart "file" field or a raw CSV body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)

	filename, data, err := s.readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.svc.Imports.Import(r.Context(), ownerID(r), filename, data)
	if err != nil {
		handleError(w, r, applog.OpImport, err)
		return
	}

	applog.FromContext(r.Context()).InfoContext(r.Context(), "CSV imported",
		applog.NewFields().
			WithOperation(applog.OpImport).
			WithOwner(ownerID(r)).
			WithImport(res.Imported, res.Rejected, string(res.Outcome)).
			ToSlice()...)
	writeJSON(w, http.StatusOK, importResponse{
		Imported: res.Imported,
		Rejected: res.Rejected,
		Outcome:  res.Outcome,
	})
}

func (s *Server) readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return "", nil, err
		}
		name := r.URL.Query().Get("filename")
		if name == "" {
			name = defaultUploadName
		}
		return filepath.Base(name), data, nil
	}

	if err := r.ParseMultipartForm(min(s.maxBytes, 32<<20)); err != nil {
		return "", nil, err
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	name := filepath.Base(header.Filename)
	if name == "." || name == "/" || name == "" {
		name = defaultUploadName
	}
	return name, data, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	months := 0
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "months must be a number")
			return
		}
		months = n
	}

	d, err := s.svc.Dashboard.Dashboard(r.Context(), ownerID(r), months)
	if err != nil {
		handleError(w, r, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(d))
}
