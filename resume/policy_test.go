package resume

import (
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

var th = Thresholds{
	WatchedFraction: 0.9,
	MinResume:       10 * time.Second,
}

func secs(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func TestComputeStart(t *testing.T) {
	Convey("ComputeStart", t, func() {
		duration := mo.Some(secs(100))

		Convey("Starts from the beginning without a recorded position", func() {
			d := ComputeStart(mo.None[time.Duration](), duration, th)
			So(d.Start, ShouldEqual, 0)
			So(d.Resuming, ShouldBeFalse)
		})

		Convey("Starts from the beginning below the resume threshold", func() {
			d := ComputeStart(mo.Some(secs(5)), duration, th)
			So(d.Start, ShouldEqual, 0)
			So(d.Resuming, ShouldBeFalse)
		})

		Convey("Resumes mid-way positions", func() {
			d := ComputeStart(mo.Some(secs(40)), duration, th)
			So(d.Start, ShouldEqual, secs(40))
			So(d.Resuming, ShouldBeTrue)
		})

		Convey("Restarts items that effectively reached the end", func() {
			d := ComputeStart(mo.Some(secs(95)), duration, th)
			So(d.Start, ShouldEqual, 0)
			So(d.Resuming, ShouldBeFalse)
		})

		Convey("Never returns an offset past duration minus the resume margin", func() {
			for pos := 0; pos <= 100; pos++ {
				d := ComputeStart(mo.Some(secs(pos)), duration, th)
				So(d.Start, ShouldBeLessThanOrEqualTo, secs(100)-th.MinResume)
			}
		})

		Convey("Resumes blindly when the duration is unknown", func() {
			d := ComputeStart(mo.Some(secs(40)), mo.None[time.Duration](), th)
			So(d.Start, ShouldEqual, secs(40))
			So(d.Resuming, ShouldBeTrue)
		})
	})
}

func TestClassifyFinal(t *testing.T) {
	Convey("ClassifyFinal", t, func() {
		Convey("Positions at or above the watched fraction are watched", func() {
			So(ClassifyFinal(secs(95), secs(100), th), ShouldEqual, Watched)
			So(ClassifyFinal(secs(90), secs(100), th), ShouldEqual, Watched)
			So(ClassifyFinal(secs(100), secs(100), th), ShouldEqual, Watched)
		})

		Convey("Positions between the thresholds are in progress", func() {
			So(ClassifyFinal(secs(50), secs(100), th), ShouldEqual, InProgress)
			So(ClassifyFinal(secs(11), secs(100), th), ShouldEqual, InProgress)
		})

		Convey("Positions below the resume threshold are unwatched", func() {
			So(ClassifyFinal(secs(5), secs(100), th), ShouldEqual, Unwatched)
			So(ClassifyFinal(0, secs(100), th), ShouldEqual, Unwatched)
		})

		Convey("Unknown duration never classifies as watched", func() {
			So(ClassifyFinal(secs(500), 0, th), ShouldEqual, InProgress)
			So(ClassifyFinal(secs(5), 0, th), ShouldEqual, Unwatched)
		})
	})
}
