package dashboard

import "errors"

var (
	// ErrUnknownCluster indicates a cluster name not among the recommendations.
	ErrUnknownCluster = errors.New("unknown career cluster")
	// ErrInvalidTimeline indicates a timeline outside the accepted set.
	ErrInvalidTimeline = errors.New("invalid timeline")
	// ErrNoRoadmap indicates that no roadmap is loaded yet.
	ErrNoRoadmap = errors.New("no roadmap loaded")
	// ErrStepOutOfRange indicates a phase or step index that does not exist.
	ErrStepOutOfRange = errors.New("roadmap step out of range")
	// ErrEmptyCareer indicates an explanation request without a career name.
	ErrEmptyCareer = errors.New("career name is required")
	// ErrEmptySkill indicates an impact simulation without a new skill.
	ErrEmptySkill = errors.New("new skill is required")
)
