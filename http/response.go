package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kayleers/clearledger-sub001/service"
)

const maxBodyBytes = 1 << 20

var errUnsupportedMediaType = errors.New("content type must be application/json")

// decodeJSON reads a JSON request body into v. A missing Content-Type is
// accepted; any other type than JSON is rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		return errUnsupportedMediaType
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// writeDecodeError answers a request whose body could not be read.
func writeDecodeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	if errors.Is(err, errUnsupportedMediaType) {
		http.Error(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	log.Debug().Err(err).Msg("Failed to decode request body")
	http.Error(w, "invalid request body", http.StatusBadRequest)
}

// writeServiceError maps validation errors to 400 and everything else to 500.
func writeServiceError(w http.ResponseWriter, log zerolog.Logger, err error) {
	if service.IsValidation(err) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Error().Err(err).Msg("Request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// writeJSON encodes into a buffer first so a failed encode does not leave a
// half-written 200 behind.
func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}
