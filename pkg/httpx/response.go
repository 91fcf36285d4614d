package httpx

import (
	"encoding/json"
	"net/http"
)

// ResultSuccess is the resultCode of every successful response.
const ResultSuccess = "SUCCESS"

// Envelope is the body shape of every API response, success or failure.
type Envelope struct {
	ResultCode string `json:"resultCode" example:"SUCCESS"`
	Result     any    `json:"result"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteResult writes an Envelope.
func WriteResult(w http.ResponseWriter, status int, resultCode string, result any) {
	WriteJSON(w, status, Envelope{ResultCode: resultCode, Result: result})
}

// WriteSuccess writes a 200 SUCCESS envelope around result, which may be nil.
func WriteSuccess(w http.ResponseWriter, result any) {
	WriteResult(w, http.StatusOK, ResultSuccess, result)
}

// NoCache stops intermediaries from storing the response. Every response can
// carry a token or user data so it is applied everywhere.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

// DecodeJSON reads a JSON body into v, rejecting unknown fields and trailing
// data. Bodies are capped at 1 MiB.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}
