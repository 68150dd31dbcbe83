package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/core"
	"github.com/ChaDonSom/Crew-Console-API-Testing/internal/logging"
)

// importRequest is the JSON body accepted by the import endpoints. Rows
// arrive as loosely typed objects because spreadsheet exports mix
// strings, numbers, and booleans freely.
type importRequest struct {
	Rows []map[string]any `json:"rows" validate:"required,min=1"`
}

// errorResponse is the JSON shape for all error replies.
type errorResponse struct {
	Error string `json:"error"`
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleImport returns a handler that ingests a batch of rows for the
// given record kind and runs it through the pipeline. The response is
// the full batch result: summary plus one outcome per input row.
func (s *Server) handleImport(kindKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def, ok := core.Get(kindKey)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown record kind %q", kindKey))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxBodySize)

		rows, err := s.readRows(r)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("request body exceeds %d bytes", s.cfg.Upload.MaxBodySize))
				return
			}
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if len(rows) == 0 {
			writeError(w, http.StatusBadRequest, "no rows to import")
			return
		}
		if len(rows) > s.cfg.Upload.MaxRows {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("batch has %d rows, limit is %d", len(rows), s.cfg.Upload.MaxRows))
			return
		}

		log := logging.FromContext(r.Context())
		proc := core.NewBatchProcessor(s.svc, def, log)

		result, err := proc.Run(r.Context(), rows)
		if err != nil {
			var pf *core.PreflightError
			if errors.As(err, &pf) {
				status := pf.Status
				if status == 0 {
					status = http.StatusBadGateway
				}
				writeError(w, status, pf.Message)
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// readRows extracts the batch rows from the request. Two content types
// are accepted: a JSON body with a rows array, or a multipart form with
// a CSV file under the "file" field.
func (s *Server) readRows(r *http.Request) ([]core.Row, error) {
	mediaType := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = mt
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("multipart upload must include a %q file field: %w", "file", err)
		}
		defer file.Close()

		rows, err := core.RowsFromCSV(file)
		if err != nil {
			return nil, fmt.Errorf("parsing CSV: %w", err)
		}
		return rows, nil
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := s.validate.Struct(&req); err != nil {
		return nil, errors.New("body must include a non-empty rows array")
	}

	rows := make([]core.Row, len(req.Rows))
	for i, values := range req.Rows {
		rows[i] = core.RowFromValues(values)
	}
	return rows, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
