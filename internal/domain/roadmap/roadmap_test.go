package roadmap_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/careermap/internal/domain/model"
	"github.com/okian/careermap/internal/domain/roadmap"
	. "github.com/smartystreets/goconvey/convey"
)

// serverRoadmap builds a server payload with the given number of steps per phase.
func serverRoadmap(stepsPerPhase ...int) model.Roadmap {
	src := model.Roadmap{GapAnalysis: model.GapAnalysis{Summary: "gap", MissingSkills: []string{"SQL"}}}
	for i, n := range stepsPerPhase {
		ph := model.RoadmapPhase{Title: "Phase " + string(rune('1'+i))}
		for j := 0; j < n; j++ {
			ph.Steps = append(ph.Steps, model.RoadmapStep{
				Title:     "step",
				Resources: []model.Resource{{Name: "docs", Type: model.ResourceFree, URL: "https://example.com"}},
			})
		}
		src.Roadmap = append(src.Roadmap, ph)
	}
	return src
}

func completeAll(r roadmap.Roadmap) roadmap.Roadmap {
	for p := range r.Phases {
		for s := range r.Phases[p].Steps {
			r = roadmap.ToggleStep(r, p, s)
		}
	}
	return r
}

func TestInitialize(t *testing.T) {
	Convey("Given a server roadmap", t, func() {
		src := serverRoadmap(2, 3)

		Convey("When it is initialized", func() {
			r := roadmap.Initialize(src)

			Convey("Then the shape is kept and nothing is completed", func() {
				So(len(r.Phases), ShouldEqual, 2)
				So(len(r.Phases[1].Steps), ShouldEqual, 3)
				So(r.GapAnalysis.Summary, ShouldEqual, "gap")
				for _, ph := range r.Phases {
					So(ph.Completed(), ShouldBeFalse)
					for _, st := range ph.Steps {
						So(st.Completed, ShouldBeFalse)
					}
				}
			})

			Convey("And it does not alias the source", func() {
				src.Roadmap[0].Steps[0].Resources[0].Name = "changed"
				src.GapAnalysis.MissingSkills[0] = "changed"
				So(r.Phases[0].Steps[0].Resources[0].Name, ShouldEqual, "docs")
				So(r.GapAnalysis.MissingSkills[0], ShouldEqual, "SQL")
			})
		})
	})
}

func TestToggleStep(t *testing.T) {
	Convey("Given an initialized roadmap", t, func() {
		r := roadmap.Initialize(serverRoadmap(2, 1))

		Convey("Toggling returns a new roadmap and leaves the input untouched", func() {
			next := roadmap.ToggleStep(r, 0, 1)
			So(next.Phases[0].Steps[1].Completed, ShouldBeTrue)
			So(r.Phases[0].Steps[1].Completed, ShouldBeFalse)
		})

		Convey("Toggling twice is the identity", func() {
			once := roadmap.ToggleStep(r, 1, 0)
			So(once.Phases[1].Completed(), ShouldBeTrue)
			twice := roadmap.ToggleStep(once, 1, 0)
			So(twice.Phases[1].Completed(), ShouldBeFalse)
			So(twice.Phases, ShouldResemble, r.Phases)
		})

		Convey("A phase completes only when all of its steps do", func() {
			r = roadmap.ToggleStep(r, 0, 0)
			So(r.Phases[0].Completed(), ShouldBeFalse)
			r = roadmap.ToggleStep(r, 0, 1)
			So(r.Phases[0].Completed(), ShouldBeTrue)
			r = roadmap.ToggleStep(r, 0, 0)
			So(r.Phases[0].Completed(), ShouldBeFalse)
		})

		Convey("Out-of-range indices panic", func() {
			So(r.Contains(2, 0), ShouldBeFalse)
			So(r.Contains(0, -1), ShouldBeFalse)
			So(func() { roadmap.ToggleStep(r, 2, 0) }, ShouldPanic)
			So(func() { roadmap.ToggleStep(r, 0, 5) }, ShouldPanic)
		})
	})
}

func TestPhaseCompletionEdgeCases(t *testing.T) {
	Convey("Given phases with 0, 1 and many steps", t, func() {
		r := roadmap.Initialize(serverRoadmap(0, 1, 4))

		Convey("An empty phase is never completed", func() {
			So(r.Phases[0].Completed(), ShouldBeFalse)
			So(roadmap.CompletedPhases(completeAll(r)), ShouldResemble, []int{1, 2})
		})

		Convey("A single-step phase follows its step", func() {
			r = roadmap.ToggleStep(r, 1, 0)
			So(r.Phases[1].Completed(), ShouldBeTrue)
		})
	})
}

func TestComputeProgress(t *testing.T) {
	Convey("Given roadmaps of different sizes", t, func() {
		Convey("An empty roadmap reports zero without dividing by zero", func() {
			p := roadmap.ComputeProgress(roadmap.Initialize(model.Roadmap{}))
			So(p, ShouldResemble, roadmap.Progress{})

			p = roadmap.ComputeProgress(roadmap.Initialize(serverRoadmap(0, 0)))
			So(p.Percentage, ShouldEqual, 0)
		})

		Convey("The percentage is 100 * completed / total for every pattern", func() {
			r := roadmap.Initialize(serverRoadmap(3, 1))
			total := 4
			done := 0
			for p := range r.Phases {
				for s := range r.Phases[p].Steps {
					r = roadmap.ToggleStep(r, p, s)
					done++
					got := roadmap.ComputeProgress(r)
					So(got.TotalSteps, ShouldEqual, total)
					So(got.CompletedSteps, ShouldEqual, done)
					So(got.Percentage, ShouldAlmostEqual, 100*float64(done)/float64(total))
				}
			}
		})
	})
}

func TestBadges(t *testing.T) {
	Convey("Given a five-phase roadmap", t, func() {
		r := roadmap.Initialize(serverRoadmap(1, 1, 1, 1, 1))

		Convey("No badges before any phase is completed", func() {
			So(roadmap.Badges(r), ShouldBeEmpty)
		})

		Convey("Ranks follow completed-phase order, not phase index", func() {
			r = roadmap.ToggleStep(r, 3, 0)
			r = roadmap.ToggleStep(r, 1, 0)
			badges := roadmap.Badges(r)
			So(len(badges), ShouldEqual, 2)
			So(badges[0].PhaseIndex, ShouldEqual, 1)
			So(badges[0].Rank, ShouldEqual, 1)
			So(badges[0].Tier.Name, ShouldEqual, "Phase 1 Finisher")
			So(badges[1].PhaseIndex, ShouldEqual, 3)
			So(badges[1].Rank, ShouldEqual, 2)
			So(badges[1].Tier.Name, ShouldEqual, "Phase 2 Conqueror")
		})

		Convey("Ranks 1-3 are distinct and rank 4+ share the default tier", func() {
			badges := roadmap.Badges(completeAll(r))
			So(len(badges), ShouldEqual, 5)
			So(badges[2].Tier.Name, ShouldEqual, "Phase 3 Master")
			So(badges[0].Tier, ShouldNotResemble, badges[1].Tier)
			So(badges[1].Tier, ShouldNotResemble, badges[2].Tier)
			So(badges[3].Tier.Name, ShouldEqual, "Roadmap Rockstar")
			So(badges[4].Tier, ShouldResemble, badges[3].Tier)
		})
	})
}

func TestTwoPhaseCompletion(t *testing.T) {
	Convey("Given a two-phase roadmap", t, func() {
		r := completeAll(roadmap.Initialize(serverRoadmap(2, 3)))

		Convey("Completing every step completes both phases", func() {
			So(len(roadmap.CompletedPhases(r)), ShouldEqual, 2)
			So(roadmap.ComputeProgress(r).Percentage, ShouldEqual, 100)
			badges := roadmap.Badges(r)
			So(len(badges), ShouldEqual, 2)
			So(badges[0].Tier.Name, ShouldEqual, "Phase 1 Finisher")
			So(badges[1].Tier.Name, ShouldEqual, "Phase 2 Conqueror")
		})
	})
}

func TestPhaseJSON(t *testing.T) {
	Convey("A phase serializes its derived completion flag", t, func() {
		r := roadmap.ToggleStep(roadmap.Initialize(serverRoadmap(1)), 0, 0)
		raw, err := json.Marshal(r.Phases[0])
		So(err, ShouldBeNil)
		var out map[string]any
		So(json.Unmarshal(raw, &out), ShouldBeNil)
		So(out["completed"], ShouldEqual, true)
		So(out["title"], ShouldEqual, "Phase 1")
	})
}
