package mux

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"sam-server/pkg/playable/sam"
	"sam-server/pkg/table"
)

const maxRows = 100
const defaultRows = 25

var statusOK = map[string]string{
	"status": "OK",
}

func parsePaginationOptions(r *http.Request) (int, int, error) {
	start := 0
	rows := defaultRows

	if startStr := r.FormValue("start"); startStr != "" {
		val, err := strconv.Atoi(startStr)
		if err != nil {
			return 0, 0, err
		}

		if val < 0 {
			return 0, 0, errors.New("start cannot be less than zero")
		}

		start = val
	}

	if rowsStr := r.FormValue("rows"); rowsStr != "" {
		val, err := strconv.Atoi(rowsStr)
		if err != nil {
			return 0, 0, err
		}

		if val <= 0 {
			return 0, 0, errors.New("rows must be greater than zero")
		}

		if val > maxRows {
			return 0, 0, fmt.Errorf("rows cannot be greater than %d", maxRows)
		}

		rows = val
	}

	return start, rows, nil
}

func remoteAddr(r *http.Request) string {
	parts := strings.Split(r.RemoteAddr, ":")
	if len(parts) == 1 {
		return parts[0]
	}

	return strings.Join(parts[0:len(parts)-1], ":")
}

func decodeRequest(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if ct := r.Header.Get("Content-Type"); ct != "application/json" && ct != "text/json" {
		writeJSONError(w, http.StatusUnsupportedMediaType, nil)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// writeError picks the status code for an error coming out of the store or the engine.
// Anything unrecognized is a 500.
func writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusCodeFor(err), err)
}

func statusCodeFor(err error) int {
	var samUE sam.UserError
	var tableUE table.UserError

	switch {
	case errors.Is(err, table.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, table.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, sam.ErrIncorrectPassword):
		return http.StatusForbidden
	case errors.Is(err, sam.ErrActionNotAllowed),
		errors.Is(err, sam.ErrPlayerNotSeated),
		errors.Is(err, sam.ErrTableFull),
		errors.Is(err, sam.ErrUnknownAction),
		errors.Is(err, sam.ErrCannotRemoveHost),
		errors.Is(err, sam.ErrPlayerLimitExceeded),
		errors.As(err, &samUE),
		errors.As(err, &tableUE):
		return http.StatusBadRequest
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	var msg string

	if statusCode < 500 && err != nil {
		msg = err.Error()
	} else {
		msg = http.StatusText(statusCode)
	}

	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    msg,
		StatusCode: statusCode,
	})
}
