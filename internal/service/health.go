package service

import (
	"net/http"

	"github.com/dimspell/svctemplate/internal/model"
)

func (s *Service) HealthCheck(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, model.Health{Healthy: true})
}

func (s *Service) WellKnownInfo(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, model.WellKnown{
		Version:    s.Config.Version,
		InstanceID: s.InstanceID,
		HelloName:  s.Config.HelloName,
	})
}
