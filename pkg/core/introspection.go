package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string `json:"repository_type"`
	Watchable      bool   `json:"watchable"`
	Sequenced      bool   `json:"sequenced"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	_, watchable := s.repo.(Watchable)
	_, sequenced := s.repo.(Sequencer)

	return ServiceState{
		RepositoryType: repoType,
		Watchable:      watchable,
		Sequenced:      sequenced,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "lifecycle"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
