package walkthrough

import (
	"fmt"
	"math"
	"slices"

	service "github.com/okian/careermap/internal/app"
	"github.com/okian/careermap/internal/domain/dashboard"
	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/internal/domain/roadmap"
)

const percentageTolerance = 1e-6

// verifyDashboard checks a settled dashboard for internal consistency and
// returns every problem found. Phase counts outside the timeline's range
// are reported too, although recommenders only follow them by convention.
func verifyDashboard(v service.SessionView) []string {
	if v.View != service.ViewDashboard || v.Dashboard == nil {
		return []string{fmt.Sprintf("expected dashboard view, got %q", v.View)}
	}
	d := v.Dashboard
	var issues []string

	if len(d.Recommendations.CareerClusters) == 0 {
		issues = append(issues, "no career clusters")
	} else if !hasCluster(d.Recommendations, d.SelectedCluster) {
		issues = append(issues, fmt.Sprintf("selected cluster %q is not recommended", d.SelectedCluster))
	}

	issues = append(issues, verifyRoadmap(*d)...)
	return issues
}

func verifyRoadmap(d dashboard.View) []string {
	rv := d.Roadmap
	if rv.Loading {
		return []string{"roadmap still loading"}
	}
	if rv.Roadmap == nil {
		// A failed roadmap call leaves the region empty; the notification covers it.
		return nil
	}
	var issues []string
	r := *rv.Roadmap

	lo, hi := d.Timeline.PhaseRange()
	if n := len(r.Phases); n < lo || n > hi {
		issues = append(issues, fmt.Sprintf("%d phases for %q, expected %d-%d", n, d.Timeline, lo, hi))
	}

	want := roadmap.ComputeProgress(r)
	if rv.Progress.CompletedSteps != want.CompletedSteps || rv.Progress.TotalSteps != want.TotalSteps {
		issues = append(issues, fmt.Sprintf("progress %d/%d, expected %d/%d",
			rv.Progress.CompletedSteps, rv.Progress.TotalSteps, want.CompletedSteps, want.TotalSteps))
	}
	if math.Abs(rv.Progress.Percentage-want.Percentage) > percentageTolerance {
		issues = append(issues, fmt.Sprintf("percentage %.2f, expected %.2f", rv.Progress.Percentage, want.Percentage))
	}

	completed := roadmap.CompletedPhases(r)
	if !slices.Equal(rv.CompletedPhases, completed) {
		issues = append(issues, fmt.Sprintf("completed phases %v, expected %v", rv.CompletedPhases, completed))
	}
	if len(rv.Badges) != len(completed) {
		issues = append(issues, fmt.Sprintf("%d badges for %d completed phases", len(rv.Badges), len(completed)))
	}
	for i, b := range rv.Badges {
		if b.Rank != i+1 || b.Tier != roadmap.TierForRank(b.Rank) {
			issues = append(issues, fmt.Sprintf("badge %d has rank %d tier %q", i, b.Rank, b.Tier.Name))
		}
	}
	return issues
}

// verifyExplanation checks a settled explanation surface. A failed fetch
// closes the surface and leaves a notification instead.
func verifyExplanation(d dashboard.View, career string) []string {
	e := d.Explanation
	switch {
	case !e.Open:
		return nil
	case e.Loading:
		return []string{"explanation still loading"}
	case e.Career != career:
		return []string{fmt.Sprintf("explanation is for %q, expected %q", e.Career, career)}
	case e.Explanation == nil:
		return nil
	}
	if n := len(e.Explanation.CoreSkills); n < 3 || n > 5 {
		return []string{fmt.Sprintf("%d core skills, expected 3-5", n)}
	}
	return nil
}

func hasCluster(recs model.CareerRecs, name string) bool {
	for _, c := range recs.CareerClusters {
		if c.Cluster == name {
			return true
		}
	}
	return false
}

// firstJobRole returns the first job role of the selected cluster.
func firstJobRole(d dashboard.View) (string, bool) {
	for _, c := range d.Recommendations.CareerClusters {
		if c.Cluster == d.SelectedCluster && len(c.JobRoles) > 0 {
			return c.JobRoles[0].Title, true
		}
	}
	return "", false
}
