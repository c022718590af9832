package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dimspell/svctemplate/internal/model"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

func (s *Service) helloRoutes(r chi.Router) {
	r.Get("/", s.GetHello)
	r.Post("/", s.PostHello)
	r.Get("/{name}", s.GetHelloName)
}

func (s *Service) GetHello(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, model.Message{
		Message: fmt.Sprintf("Hello, %s!", s.Config.HelloName),
	})
}

func (s *Service) GetHelloName(w http.ResponseWriter, r *http.Request) {
	s.greet(w, model.HelloRequest{Name: chi.URLParam(r, "name")})
}

func (s *Service) PostHello(w http.ResponseWriter, r *http.Request) {
	var req model.HelloRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		renderError(w, http.StatusBadRequest, model.ErrorCodeInvalidBody, err.Error())
		return
	}
	s.greet(w, req)
}

func (s *Service) greet(w http.ResponseWriter, req model.HelloRequest) {
	if err := model.Validate(req); err != nil {
		renderValidationError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, model.Message{
		Message: fmt.Sprintf("Hello, %s! (from %s)", req.Name, s.Config.HelloName),
	})
}
