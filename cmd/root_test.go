package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jellypick-cli/jellypick/auth"
	"github.com/jellypick-cli/jellypick/jellyfin"
	"github.com/jellypick-cli/jellypick/player"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExitCode(t *testing.T) {
	Convey("Exit code mapping", t, func() {
		Convey("authentication failures", func() {
			So(exitCode(errAuthRequired), ShouldEqual, exitAuth)
			So(exitCode(auth.ErrTimeout), ShouldEqual, exitAuth)
			So(exitCode(auth.ErrDenied), ShouldEqual, exitAuth)
			So(exitCode(fmt.Errorf("sign in: %w", auth.ErrTimeout)), ShouldEqual, exitAuth)
			So(exitCode(&jellyfin.Error{Kind: jellyfin.KindUnauthorized, Op: "Users/Me"}), ShouldEqual, exitAuth)
		})

		Convey("network and API failures", func() {
			So(exitCode(&jellyfin.Error{Kind: jellyfin.KindNetwork, Op: "UserItems/Resume"}), ShouldEqual, exitNetwork)
			So(exitCode(&jellyfin.Error{Kind: jellyfin.KindServer, Op: "Shows/NextUp", Status: 500}), ShouldEqual, exitNetwork)
		})

		Convey("player launch failures", func() {
			So(exitCode(&player.LaunchError{Player: "mpv", Err: errors.New("executable not found")}), ShouldEqual, exitPlayer)
		})

		Convey("everything else", func() {
			So(exitCode(errors.New("boom")), ShouldEqual, exitGeneric)
		})
	})
}
