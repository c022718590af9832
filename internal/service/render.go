package service

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/dimspell/svctemplate/internal/model"
)

func renderJSON(w http.ResponseWriter, status int, document any) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(document); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func renderError(w http.ResponseWriter, status int, code string, details any) {
	renderJSON(w, status, model.ErrorResponse{
		Error:   code,
		Details: details,
	})
}

func renderValidationError(w http.ResponseWriter, err error) {
	renderError(w, http.StatusBadRequest, model.ErrorCodeValidation, model.ValidationDetails(err))
}
