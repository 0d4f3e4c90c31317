package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When initialized with an unknown format", func() {
			err := Init(WithFormat("xml"))

			Convey("Then it fails", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "xml")
			})
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("json"), WithWriter(&buf)), ShouldBeNil)

		Convey("When a named child logs with fields", func() {
			Named("dashboard").With(String("session", "s-1")).Info(context.Background(), "cluster selected", Int("generation", 2))

			var rec map[string]any
			So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)

			Convey("Then the record carries the message, fields and source", func() {
				So(rec["msg"], ShouldEqual, "cluster selected")
				group, ok := rec["dashboard"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(group["session"], ShouldEqual, "s-1")
				So(group["generation"], ShouldEqual, 2.0)
				So(group["source"], ShouldContainSubstring, "logger_test.go")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given a text logger at info level", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("Debug records are dropped until the level is lowered", func() {
			Get().Debug(ctx, "hidden")
			So(buf.Len(), ShouldEqual, 0)

			So(SetLevelString("DEBUG"), ShouldBeNil)
			Get().Debug(ctx, "visible")
			So(strings.Contains(buf.String(), "visible"), ShouldBeTrue)
		})

		Convey("Unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
			So(SetLevelString("warning"), ShouldBeNil)
		})
	})
}
