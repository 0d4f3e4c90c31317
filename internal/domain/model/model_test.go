package model

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTimeline(t *testing.T) {
	Convey("Given the timeline enumeration", t, func() {
		Convey("The default is the first entry", func() {
			So(DefaultTimeline, ShouldEqual, Timelines[0])
		})

		Convey("Phase ranges follow the timeline convention", func() {
			lo, hi := Timeline3Months.PhaseRange()
			So([]int{lo, hi}, ShouldResemble, []int{3, 4})
			lo, hi = Timeline6Months.PhaseRange()
			So([]int{lo, hi}, ShouldResemble, []int{5, 6})
			lo, hi = Timeline1Year.PhaseRange()
			So([]int{lo, hi}, ShouldResemble, []int{8, 12})
		})

		Convey("ParseTimeline accepts only known values", func() {
			tl, err := ParseTimeline("6 months")
			So(err, ShouldBeNil)
			So(tl, ShouldEqual, Timeline6Months)

			_, err = ParseTimeline("2 weeks")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLearningStyle(t *testing.T) {
	Convey("Learning styles validate against the fixed set", t, func() {
		So(LearningStyle("visual").Valid(), ShouldBeTrue)
		So(LearningStyle("theory-oriented").Valid(), ShouldBeTrue)
		So(LearningStyle("auditory").Valid(), ShouldBeFalse)
	})
}

func TestAnswersClone(t *testing.T) {
	Convey("Given submitted answers", t, func() {
		a := AssessmentAnswers{UserSkills: []string{"HTML"}, Interests: []string{"research"}}

		Convey("A clone does not share slices", func() {
			c := a.Clone()
			c.UserSkills[0] = "Go"
			So(a.UserSkills[0], ShouldEqual, "HTML")
		})
	})
}

func TestResourceWireName(t *testing.T) {
	Convey("A resource kind travels as the type field", t, func() {
		var r Resource
		So(json.Unmarshal([]byte(`{"name":"NPTEL","type":"free","url":"https://nptel.ac.in"}`), &r), ShouldBeNil)
		So(r.Type, ShouldEqual, ResourceFree)
	})
}

func TestCareerRecsCluster(t *testing.T) {
	Convey("Clusters are looked up by name", t, func() {
		recs := CareerRecs{CareerClusters: []CareerCluster{{Cluster: "Data & AI"}, {Cluster: "Green Tech"}}}
		c, ok := recs.Cluster("Green Tech")
		So(ok, ShouldBeTrue)
		So(c.Cluster, ShouldEqual, "Green Tech")
		_, ok = recs.Cluster("Healthcare")
		So(ok, ShouldBeFalse)
	})
}
