// Package cmd implements the jellypick command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jellypick-cli/jellypick/auth"
	"github.com/jellypick-cli/jellypick/constant"
	"github.com/jellypick-cli/jellypick/icon"
	"github.com/jellypick-cli/jellypick/jellyfin"
	"github.com/jellypick-cli/jellypick/key"
	"github.com/jellypick-cli/jellypick/log"
	"github.com/jellypick-cli/jellypick/player"
	"github.com/jellypick-cli/jellypick/style"
	"github.com/jellypick-cli/jellypick/util"
	"github.com/jellypick-cli/jellypick/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes. No selection in the menu is a normal outcome, not an error.
const (
	exitOK      = 0
	exitGeneric = 1
	exitAuth    = 2
	exitNetwork = 3
	exitPlayer  = 4
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
	rootCmd.Flags().BoolP("tui", "t", false, "Use the built-in picker instead of an external selector")
	rootCmd.Flags().BoolP("continue", "c", false, "Resume the most recently played item without opening the menu")
	lo.Must0(viper.BindPFlag(key.MenuTUI, rootCmd.Flags().Lookup("tui")))

	rootCmd.Flags().StringP("menu", "m", "", "Selector command override (e.g. 'rofi -dmenu')")
	lo.Must0(viper.BindPFlag(key.MenuCommand, rootCmd.Flags().Lookup("menu")))

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the menu icon variant")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Persist playback progress to the local watch history")
	lo.Must0(viper.BindPFlag(key.HistorySaveOnPlay, rootCmd.PersistentFlags().Lookup("write-history")))

	// Clean up leftover player sockets from previous runs.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd is the entry point: browse the server through the selector and
// play the chosen item. Arguments after -- are passed through to the player.
var rootCmd = &cobra.Command{
	Use:   constant.JellyPick + " [-- player args]",
	Short: "Browse and play a Jellyfin library through a dmenu-style selector",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, nil)
			return
		}

		CheckDependencies()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		flow := &playFlow{
			useTUI:     viper.GetBool(key.MenuTUI),
			resumeLast: lo.Must(cmd.Flags().GetBool("continue")),
			playerArgs: args,
		}
		handleErr(flow.run(ctx))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(exitGeneric)
	}
}

// errAuthRequired is returned when no usable credential exists.
var errAuthRequired = fmt.Errorf("not signed in, run '%s auth' first", constant.JellyPick)

// handleErr reports the error and exits with the code its class maps to.
func handleErr(err error) {
	if err == nil {
		return
	}

	// An interrupt mid-playback is a normal way to end a session.
	if errors.Is(err, context.Canceled) {
		os.Exit(exitOK)
	}

	log.Error(err)
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(style.ErrorColor)(icon.Get(icon.Fail)), strings.Trim(err.Error(), " \n"))

	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	var launchErr *player.LaunchError
	switch {
	case errors.Is(err, errAuthRequired),
		errors.Is(err, auth.ErrTimeout),
		errors.Is(err, auth.ErrDenied),
		jellyfin.IsUnauthorized(err):
		return exitAuth
	case errors.As(err, &launchErr):
		return exitPlayer
	case jellyfin.IsNetwork(err):
		return exitNetwork
	default:
		var apiErr *jellyfin.Error
		if errors.As(err, &apiErr) {
			return exitNetwork
		}
		return exitGeneric
	}
}
