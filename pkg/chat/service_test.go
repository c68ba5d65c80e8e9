package chat

import (
	"testing"

	"google.golang.org/adk/agent/llmagent"
)

// The service hands its model straight to llmagent.Config; the field type
// must stay assignable to what the agent expects.
func TestServiceModelFitsAgentConfig(t *testing.T) {
	var s Service
	cfg := llmagent.Config{
		Name:  assistantName,
		Model: s.Model,
	}
	if cfg.Name != assistantName {
		t.Errorf("config name = %q, want %q", cfg.Name, assistantName)
	}
}
