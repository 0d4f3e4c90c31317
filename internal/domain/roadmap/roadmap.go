// Package roadmap tracks a user's progress through a learning roadmap.
//
// All functions are pure: they never mutate their input and derive phase
// completion, progress and badges from step flags on every call.
package roadmap

import (
	"encoding/json"
	"fmt"

	"github.com/okian/careermap/internal/domain/model"
)

// Step is a roadmap step with its client-side completion flag.
type Step struct {
	Title     string           `json:"title"`
	Resources []model.Resource `json:"resources"`
	Completed bool             `json:"completed"`
}

// Phase is an ordered block of steps.
type Phase struct {
	Title string `json:"title"`
	Steps []Step `json:"steps"`
}

// Completed reports whether every step of the phase is done.
// A phase without steps is never completed.
func (p Phase) Completed() bool {
	if len(p.Steps) == 0 {
		return false
	}
	for _, s := range p.Steps {
		if !s.Completed {
			return false
		}
	}
	return true
}

// MarshalJSON adds the derived completed flag.
func (p Phase) MarshalJSON() ([]byte, error) {
	type plain Phase
	return json.Marshal(struct {
		plain
		Completed bool `json:"completed"`
	}{plain(p), p.Completed()})
}

// Roadmap is the client-tracked roadmap.
type Roadmap struct {
	GapAnalysis model.GapAnalysis `json:"gapAnalysis"`
	Phases      []Phase           `json:"phases"`
}

// Progress summarizes step completion across all phases.
type Progress struct {
	CompletedSteps int     `json:"completedSteps"`
	TotalSteps     int     `json:"totalSteps"`
	Percentage     float64 `json:"percentage"`
}

// Initialize converts a server roadmap into a tracked one with nothing completed.
func Initialize(src model.Roadmap) Roadmap {
	r := Roadmap{
		GapAnalysis: model.GapAnalysis{
			ExistingSkills: append([]string(nil), src.GapAnalysis.ExistingSkills...),
			MissingSkills:  append([]string(nil), src.GapAnalysis.MissingSkills...),
			Summary:        src.GapAnalysis.Summary,
		},
		Phases: make([]Phase, len(src.Roadmap)),
	}
	for i, ph := range src.Roadmap {
		steps := make([]Step, len(ph.Steps))
		for j, st := range ph.Steps {
			steps[j] = Step{
				Title:     st.Title,
				Resources: append([]model.Resource(nil), st.Resources...),
			}
		}
		r.Phases[i] = Phase{Title: ph.Title, Steps: steps}
	}
	return r
}

// Contains reports whether (phase, step) addresses an existing step.
func (r Roadmap) Contains(phase, step int) bool {
	return phase >= 0 && phase < len(r.Phases) && step >= 0 && step < len(r.Phases[phase].Steps)
}

// ToggleStep returns a copy of r with the addressed step flipped.
// Out-of-range indices are a programming error and panic; check with Contains first.
func ToggleStep(r Roadmap, phase, step int) Roadmap {
	if !r.Contains(phase, step) {
		panic(fmt.Sprintf("roadmap: step (%d,%d) out of range", phase, step))
	}
	out := Roadmap{GapAnalysis: r.GapAnalysis, Phases: make([]Phase, len(r.Phases))}
	copy(out.Phases, r.Phases)

	steps := make([]Step, len(r.Phases[phase].Steps))
	copy(steps, r.Phases[phase].Steps)
	steps[step].Completed = !steps[step].Completed
	out.Phases[phase].Steps = steps
	return out
}

// ComputeProgress counts completed steps. Percentage is 0 for an empty roadmap.
func ComputeProgress(r Roadmap) Progress {
	var p Progress
	for _, ph := range r.Phases {
		p.TotalSteps += len(ph.Steps)
		for _, s := range ph.Steps {
			if s.Completed {
				p.CompletedSteps++
			}
		}
	}
	if p.TotalSteps > 0 {
		p.Percentage = float64(p.CompletedSteps) / float64(p.TotalSteps) * 100
	}
	return p
}

// CompletedPhases returns the indices of completed phases in roadmap order.
func CompletedPhases(r Roadmap) []int {
	out := []int{}
	for i, ph := range r.Phases {
		if ph.Completed() {
			out = append(out, i)
		}
	}
	return out
}
