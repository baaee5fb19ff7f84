package credstore

import (
	"testing"

	"github.com/jellypick-cli/jellypick/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	filesystem.SetMemMapFs()
	keyring.MockInit()
}

func TestCredentialStore(t *testing.T) {
	Convey("Given a credential", t, func() {
		cred := Credential{
			Server:   "https://jellyfin.example.org",
			UserID:   "u1",
			DeviceID: NewDeviceID(),
			Token:    "tok-123",
		}

		Convey("It round-trips through Save and Load", func() {
			So(Save(cred), ShouldBeNil)

			loaded, err := Load()
			So(err, ShouldBeNil)
			So(loaded.Server, ShouldEqual, cred.Server)
			So(loaded.UserID, ShouldEqual, cred.UserID)
			So(loaded.DeviceID, ShouldEqual, cred.DeviceID)
			So(loaded.Token, ShouldEqual, cred.Token)
			So(loaded.Valid(), ShouldBeTrue)
		})

		Convey("Clear removes it", func() {
			So(Save(cred), ShouldBeNil)
			So(Clear(), ShouldBeNil)

			_, err := Load()
			So(err, ShouldEqual, ErrNotFound)
		})
	})

	Convey("An incomplete credential is not valid", t, func() {
		So(Credential{Server: "https://x"}.Valid(), ShouldBeFalse)
		So(Credential{}.Valid(), ShouldBeFalse)
	})

	Convey("Device ids are unique", t, func() {
		So(NewDeviceID(), ShouldNotEqual, NewDeviceID())
		So(NewDeviceID(), ShouldHaveLength, 16)
	})
}
