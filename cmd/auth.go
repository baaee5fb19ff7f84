package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jellypick-cli/jellypick/auth"
	"github.com/jellypick-cli/jellypick/credstore"
	"github.com/jellypick-cli/jellypick/icon"
	"github.com/jellypick-cli/jellypick/jellyfin"
	"github.com/jellypick-cli/jellypick/key"
	"github.com/jellypick-cli/jellypick/open"
	"github.com/jellypick-cli/jellypick/style"
	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.Flags().StringP("server", "s", "", "Jellyfin server URL")
	authCmd.Flags().BoolP("open", "o", false, "Open the quick connect page in the browser")
	authCmd.Flags().Bool("clear", false, "Forget the stored credential and exit")
	authCmd.SetOut(os.Stdout)
}

// authCmd runs the quick connect handshake and stores the resulting
// credential. Running it again replaces any existing sign-in.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in to a Jellyfin server via quick connect",
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("clear")) {
			handleErr(credstore.Clear())
			cmd.Println("Credential cleared.")
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := lo.Must(cmd.Flags().GetString("server"))
		if server == "" {
			server = viper.GetString(key.ServerURL)
		}
		if server == "" {
			handleErr(survey.AskOne(&survey.Input{
				Message: "Server URL:",
				Help:    "The address of the Jellyfin server, e.g. https://jellyfin.example.org",
			}, &server, survey.WithValidator(survey.Required), survey.WithValidator(validServerURL)))
		}
		server = strings.TrimRight(strings.TrimSpace(server), "/")

		// Keep the device id stable across re-auth so the server shows one
		// device, not one per sign-in.
		deviceID := credstore.NewDeviceID()
		if existing, err := credstore.Load(); err == nil && existing.DeviceID != "" {
			deviceID = existing.DeviceID
		}

		client := jellyfin.New(server, deviceID)

		info, err := client.GetPublicInfo(ctx)
		handleErr(err)
		cmd.Printf("Connecting to %s (%s)\n", style.Bold(info.ServerName), info.Version)

		notify := printQuickConnectCode
		if lo.Must(cmd.Flags().GetBool("open")) {
			notify = func(code, approveURL string) {
				printQuickConnectCode(code, approveURL)
				if err := open.Start(approveURL); err != nil {
					cmd.Printf("Could not open the browser: %v\n", err)
				}
			}
		}

		cred, err := auth.Handshake(ctx, client, deviceID, notify)
		handleErr(err)

		viper.Set(key.ServerURL, server)
		switch err := viper.WriteConfig(); err.(type) {
		case viper.ConfigFileNotFoundError:
			handleErr(viper.SafeWriteConfig())
		default:
			handleErr(err)
		}

		user, err := client.Me(ctx)
		if err != nil {
			// The credential is already stored; a failed lookup only costs
			// the greeting.
			cmd.Printf("%s Signed in to %s\n", style.Fg(style.SuccessColor)(icon.Get(icon.Success)), cred.Server)
			return
		}
		cmd.Printf("%s Signed in as %s\n", style.Fg(style.SuccessColor)(icon.Get(icon.Success)), style.Bold(user.Name))
	},
}

// printQuickConnectCode tells the user what to approve and where.
func printQuickConnectCode(code, approveURL string) {
	fmt.Printf("Quick connect code: %s\n", style.Bold(code))
	fmt.Printf("Approve it at %s\n", style.Underline(approveURL))
}

func validServerURL(val any) error {
	raw, ok := val.(string)
	if !ok {
		return errors.New("expected a string")
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("the URL must start with http:// or https://")
	}
	return nil
}
