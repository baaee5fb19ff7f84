package jellyfin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTicks(t *testing.T) {
	Convey("Tick conversion", t, func() {
		So(TicksToDuration(10_000_000), ShouldEqual, time.Second)
		So(TicksToDuration(0), ShouldEqual, time.Duration(0))
		So(DurationToTicks(90*time.Second), ShouldEqual, int64(900_000_000))

		Convey("Sub-second positions survive the round trip", func() {
			pos := 42*time.Second + 250*time.Millisecond
			So(TicksToDuration(15_000_000), ShouldEqual, 1500*time.Millisecond)
			So(DurationToTicks(time.Millisecond), ShouldEqual, int64(10_000))
			So(TicksToDuration(DurationToTicks(pos)), ShouldEqual, pos)
		})
	})
}

func TestErrorMapping(t *testing.T) {
	Convey("Given a server that rejects the token", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := New(srv.URL, "device-1")
		client.SetToken("stale")

		Convey("Requests surface an unauthorized API error", func() {
			_, err := client.Me(context.Background())
			So(err, ShouldNotBeNil)
			So(IsUnauthorized(err), ShouldBeTrue)
			So(IsNetwork(err), ShouldBeFalse)
		})
	})

	Convey("Given an unreachable server", t, func() {
		client := New("http://127.0.0.1:1", "device-1")

		Convey("Requests surface a network API error", func() {
			_, err := client.Me(context.Background())
			So(err, ShouldNotBeNil)
			So(IsNetwork(err), ShouldBeTrue)
			So(IsUnauthorized(err), ShouldBeFalse)
		})
	})
}

func TestAuthorizationHeader(t *testing.T) {
	Convey("Given an authenticated client", t, func() {
		var header string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header = r.Header.Get("Authorization")
			_ = json.NewEncoder(w).Encode(User{ID: "u1", Name: "alice"})
		}))
		defer srv.Close()

		client := New(srv.URL+"/", "device-7")
		client.SetToken("secret-token")

		Convey("Requests carry the MediaBrowser identity and token", func() {
			user, err := client.Me(context.Background())
			So(err, ShouldBeNil)
			So(user.Name, ShouldEqual, "alice")
			So(header, ShouldContainSubstring, `MediaBrowser Client="jellypick"`)
			So(header, ShouldContainSubstring, `DeviceId="device-7"`)
			So(header, ShouldContainSubstring, `Token="secret-token"`)
		})
	})
}

func TestQuickConnect(t *testing.T) {
	Convey("Given a quick-connect capable server", t, func() {
		approved := false
		denied := false

		mux := http.NewServeMux()
		mux.HandleFunc("POST /QuickConnect/Initiate", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(QuickConnect{Code: "123456", Secret: "s3cret"})
		})
		mux.HandleFunc("GET /QuickConnect/Connect", func(w http.ResponseWriter, r *http.Request) {
			if denied {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]bool{"Authenticated": approved})
		})
		mux.HandleFunc("POST /Users/AuthenticateWithQuickConnect", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(Authentication{
				AccessToken: "fresh-token",
				User:        User{ID: "u1", Name: "alice"},
			})
		})

		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := New(srv.URL, "device-1")
		ctx := context.Background()

		Convey("Initiate returns code and secret", func() {
			qc, err := client.QuickConnectInitiate(ctx)
			So(err, ShouldBeNil)
			So(qc.Code, ShouldEqual, "123456")
			So(qc.Secret, ShouldEqual, "s3cret")
		})

		Convey("Approval state is polled until granted", func() {
			ok, err := client.QuickConnectApproved(ctx, "s3cret")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			approved = true
			ok, err = client.QuickConnectApproved(ctx, "s3cret")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("An expired attempt maps to the denial sentinel", func() {
			denied = true
			_, err := client.QuickConnectApproved(ctx, "s3cret")
			So(err, ShouldEqual, ErrQuickConnectDenied)
		})

		Convey("Authenticate installs the token on the client", func() {
			auth, err := client.QuickConnectAuthenticate(ctx, "s3cret")
			So(err, ShouldBeNil)
			So(auth.AccessToken, ShouldEqual, "fresh-token")
			So(client.StreamURL("item"), ShouldContainSubstring, "api_key=fresh-token")
		})
	})
}

func TestProgressReports(t *testing.T) {
	Convey("Given a server recording playback reports", t, func() {
		var (
			lastPath   string
			lastReport playbackReport
			lastData   userDataUpdate
		)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastPath = r.URL.Path
			if r.URL.Path == "/UserItems/item-1/UserData" {
				_ = json.NewDecoder(r.Body).Decode(&lastData)
			} else {
				_ = json.NewDecoder(r.Body).Decode(&lastReport)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{})
		}))
		defer srv.Close()

		client := New(srv.URL, "device-1")
		client.SetToken("tok")
		client.SetUserID("u1")
		ctx := context.Background()

		Convey("ReportProgress sends position in ticks and the pause state", func() {
			So(client.ReportProgress(ctx, "item-1", 90*time.Second, true), ShouldBeNil)
			So(lastPath, ShouldEqual, "/Sessions/Playing/Progress")
			So(lastReport.ItemID, ShouldEqual, "item-1")
			So(lastReport.PositionTicks, ShouldEqual, int64(900_000_000))
			So(lastReport.IsPaused, ShouldBeTrue)
		})

		Convey("ReportStart and ReportStopped hit the session endpoints", func() {
			So(client.ReportStart(ctx, "item-1", 0), ShouldBeNil)
			So(lastPath, ShouldEqual, "/Sessions/Playing")

			So(client.ReportStopped(ctx, "item-1", 40*time.Second), ShouldBeNil)
			So(lastPath, ShouldEqual, "/Sessions/Playing/Stopped")
			So(lastReport.PositionTicks, ShouldEqual, int64(400_000_000))
		})

		Convey("MarkPlayed sets the flag and zeroes the position", func() {
			So(client.MarkPlayed(ctx, "item-1"), ShouldBeNil)
			So(lastPath, ShouldEqual, "/UserItems/item-1/UserData")
			So(lastData.Played, ShouldNotBeNil)
			So(*lastData.Played, ShouldBeTrue)
			So(*lastData.PlaybackPositionTicks, ShouldEqual, int64(0))
		})

		Convey("ResetProgress clears both", func() {
			So(client.ResetProgress(ctx, "item-1"), ShouldBeNil)
			So(*lastData.Played, ShouldBeFalse)
			So(*lastData.PlaybackPositionTicks, ShouldEqual, int64(0))
		})
	})
}
