package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/baas-sample/models"
)

// maxBodySize bounds request bodies decoded by DecodeJSON.
const maxBodySize = 1 << 20

// WriteJSON serializes data to JSON and writes it with statusCode and an
// "application/json" content type.
//
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// WriteAPIError writes the {"code":N,"error":"..."} body used by every
// failed API request.
func WriteAPIError(w http.ResponseWriter, statusCode, code int, message string) {
	_, _ = WriteJSON(w, models.APIError{Code: code, Error: message}, statusCode)
}

// DecodeJSON decodes the JSON body of r into dst. Bodies larger than 1 MiB
// and trailing data are rejected.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("error decoding request body: %w", err)
	}
	if dec.More() {
		return fmt.Errorf("error decoding request body: unexpected trailing data")
	}
	return nil
}
