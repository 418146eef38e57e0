// Package report renders the outcome of a provisioning run as YAML.
package report

import (
	"fmt"
	"path"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imamik/vmprovision/internal/cloud"
	"github.com/imamik/vmprovision/internal/provisioning"
)

// ContentType is the media type of a marshaled report.
const ContentType = "application/yaml"

// Report is the persisted summary of one run.
type Report struct {
	RunID         string     `yaml:"run_id"`
	Provider      string     `yaml:"provider"`
	ResourceGroup string     `yaml:"resource_group"`
	GeneratedAt   string     `yaml:"generated_at"`
	State         string     `yaml:"state"`
	History       []string   `yaml:"history"`
	Duration      string     `yaml:"duration"`
	Steps         []Step     `yaml:"steps,omitempty"`
	Resources     []Resource `yaml:"resources,omitempty"`
	CreateError   string     `yaml:"create_error,omitempty"`
	CleanupError  string     `yaml:"cleanup_error,omitempty"`
}

// Step is the outcome of one workflow step.
type Step struct {
	Name     string `yaml:"name"`
	Duration string `yaml:"duration"`
	Error    string `yaml:"error,omitempty"`
}

// Resource is a resource created during the run.
type Resource struct {
	Kind     string     `yaml:"kind"`
	Name     string     `yaml:"name"`
	ID       string     `yaml:"id"`
	Location string     `yaml:"location,omitempty"`
	Children []Resource `yaml:"children,omitempty"`
}

// New builds the report for res.
func New(res *provisioning.Result, provider, group string) *Report {
	r := &Report{
		RunID:         res.RunID,
		Provider:      provider,
		ResourceGroup: group,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		State:         res.State.String(),
		Duration:      res.Duration.Round(time.Millisecond).String(),
	}
	for _, s := range res.History {
		r.History = append(r.History, s.String())
	}
	for _, s := range res.Steps {
		step := Step{Name: s.Name, Duration: s.Duration.Round(time.Millisecond).String()}
		if s.Err != nil {
			step.Error = s.Err.Error()
		}
		r.Steps = append(r.Steps, step)
		if !s.Handle.IsZero() {
			r.Resources = append(r.Resources, resource(s.Handle))
		}
	}
	if res.CreateErr != nil {
		r.CreateError = res.CreateErr.Error()
	}
	if res.CleanupErr != nil {
		r.CleanupError = res.CleanupErr.Error()
	}
	return r
}

func resource(h cloud.Handle) Resource {
	out := Resource{Kind: string(h.Kind), Name: h.Name, ID: h.ID, Location: h.Location}
	for _, c := range h.Children {
		out.Children = append(out.Children, resource(c))
	}
	return out
}

// Marshal encodes the report as YAML.
func (r *Report) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// ObjectKey is the storage key of the report: vmprovision/<group>/<run id>.yaml.
func (r *Report) ObjectKey() string {
	return path.Join("vmprovision", r.ResourceGroup, r.RunID+".yaml")
}
