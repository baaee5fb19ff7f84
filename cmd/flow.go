package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/jellypick-cli/jellypick/auth"
	"github.com/jellypick-cli/jellypick/catalog"
	"github.com/jellypick-cli/jellypick/credstore"
	"github.com/jellypick-cli/jellypick/history"
	"github.com/jellypick-cli/jellypick/icon"
	"github.com/jellypick-cli/jellypick/jellyfin"
	"github.com/jellypick-cli/jellypick/key"
	"github.com/jellypick-cli/jellypick/log"
	"github.com/jellypick-cli/jellypick/menu"
	"github.com/jellypick-cli/jellypick/player"
	"github.com/jellypick-cli/jellypick/resume"
	"github.com/jellypick-cli/jellypick/session"
	"github.com/jellypick-cli/jellypick/style"
	"github.com/jellypick-cli/jellypick/tui"
	"github.com/jellypick-cli/jellypick/util"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// backID marks the synthetic "go up one level" menu line.
const backID = ".."

// playFlow is one browse-select-play run of the root command.
type playFlow struct {
	useTUI     bool
	resumeLast bool
	playerArgs []string
}

func (f *playFlow) run(ctx context.Context) error {
	client, err := f.connect()
	if err != nil {
		return err
	}

	if f.resumeLast {
		return f.replayLast(ctx, client)
	}

	browser := catalog.NewBrowser(client)
	entries, err := f.fetch(ctx, browser)
	if jellyfin.IsUnauthorized(err) {
		// Stale token. One interactive re-auth, then one retry.
		if err = f.reauth(ctx, client); err != nil {
			return err
		}
		entries, err = f.fetch(ctx, browser)
	}
	if err != nil {
		return err
	}

	entry, ok, err := f.choose(ctx, browser, entries)
	if err != nil || !ok {
		return err
	}

	return f.play(ctx, client, entry)
}

// fetch assembles the browse catalog, keeping the terminal quiet but not
// frozen while the server answers.
func (f *playFlow) fetch(ctx context.Context, browser *catalog.Browser) ([]catalog.Sectioned, error) {
	eraser := util.PrintErasable(fmt.Sprintf("%s Fetching library ...", icon.Get(icon.Progress)))
	defer eraser()

	return browser.Fetch(ctx)
}

// connect builds an authenticated API client from the stored credential.
func (f *playFlow) connect() (*jellyfin.Client, error) {
	cred, err := credstore.Load()
	if errors.Is(err, credstore.ErrNotFound) {
		return nil, errAuthRequired
	}
	if err != nil {
		return nil, err
	}
	if !cred.Valid() {
		return nil, errAuthRequired
	}

	client := jellyfin.New(cred.Server, cred.DeviceID)
	client.SetToken(cred.Token)
	client.SetUserID(cred.UserID)
	return client, nil
}

// reauth runs the quick-connect handshake against the already-configured
// client, leaving it authenticated on success.
func (f *playFlow) reauth(ctx context.Context, client *jellyfin.Client) error {
	cred, err := credstore.Load()
	if err != nil {
		return errAuthRequired
	}

	fmt.Println("Session expired, starting a new quick connect handshake.")
	_, err = auth.Handshake(ctx, client, cred.DeviceID, printQuickConnectCode)
	return err
}

// choose drives the selector until the user picks a playable entry, drills
// through folders, or dismisses the menu. ok is false on dismissal.
func (f *playFlow) choose(ctx context.Context, browser *catalog.Browser, top []catalog.Sectioned) (catalog.Entry, bool, error) {
	var levels util.Stack[[]catalog.Sectioned]
	current := top

	for {
		lines := menu.Render(current)
		if levels.Len() > 0 {
			back := menu.Line{
				Text:  fmt.Sprintf("%s Back", icon.Get(icon.Back)),
				Entry: catalog.Entry{ID: backID, Kind: catalog.Folder},
			}
			lines = append([]menu.Line{back}, lines...)
		}

		line, ok, err := f.pick(lines)
		if err != nil || !ok {
			return catalog.Entry{}, false, err
		}

		entry := line.Entry
		switch {
		case entry.ID == backID:
			current = levels.Pop()
		case entry.Playable():
			return entry, true, nil
		default:
			children, err := browser.Children(ctx, entry)
			if err != nil {
				return catalog.Entry{}, false, err
			}
			levels.Push(current)
			current = children
		}
	}
}

// pick shows one menu round through the external selector, falling back to
// the built-in picker when none is available.
func (f *playFlow) pick(lines []menu.Line) (menu.Line, bool, error) {
	prompt := viper.GetString(key.MenuPrompt)

	if f.useTUI {
		return tui.Pick(prompt, lines)
	}

	selector, err := menu.NewSelector()
	if errors.Is(err, menu.ErrNoSelector) {
		log.Warn("no dmenu-style selector found, using the built-in picker")
		return tui.Pick(prompt, lines)
	}
	if err != nil {
		return menu.Line{}, false, err
	}

	answer, err := selector.Ask(prompt, menu.Texts(lines))
	if errors.Is(err, menu.ErrCancelled) {
		return menu.Line{}, false, nil
	}
	if err != nil {
		return menu.Line{}, false, err
	}

	entry, ok := menu.Resolve(answer, lines)
	if !ok {
		// The selector returned text we never offered; treat it like a
		// dismissal rather than an error.
		log.Debugf("unresolvable selector answer: %q", answer)
		return menu.Line{}, false, nil
	}
	return menu.Line{Text: answer, Entry: entry}, true, nil
}

// play runs one playback session for the entry and records the outcome.
func (f *playFlow) play(ctx context.Context, client *jellyfin.Client, entry catalog.Entry) error {
	decision := resume.ComputeStart(entry.Position, entry.Duration, resume.ThresholdsFromConfig())
	if decision.Resuming {
		log.Infof("resuming %s at %s", entry, decision.Start)
	}

	mpv := player.NewMPV(viper.GetString(key.Player), f.playerArgs...)
	sess := session.New(mpv, client, session.ConfigFromViper())

	summary, err := sess.Run(ctx, entry, client.StreamURL(entry.ID), decision.Start)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if viper.GetBool(key.HistorySaveOnPlay) && summary.Position > 0 {
		if saveErr := history.Save(entry, summary.Position, summary.Duration); saveErr != nil {
			log.Warnf("history save failed: %v", saveErr)
		}
	}

	printSummary(entry, summary)
	return err
}

// replayLast resumes the most recent history record without opening the menu.
func (f *playFlow) replayLast(ctx context.Context, client *jellyfin.Client) error {
	record, ok := history.Last()
	if !ok {
		fmt.Println("Nothing to continue: the watch history is empty.")
		return nil
	}

	entry := catalog.Entry{
		ID:      record.ItemID,
		Title:   record.Title,
		Series:  record.Series,
		Season:  record.Season,
		Episode: record.Episode,
	}
	if record.Series != "" {
		entry.Kind = catalog.Episode
	}
	if record.Duration > 0 {
		entry.Duration = mo.Some(record.Duration)
	}
	if record.Position > 0 {
		entry.Position = mo.Some(record.Position)
	}

	return f.play(ctx, client, entry)
}

func printSummary(entry catalog.Entry, summary session.Summary) {
	switch summary.Class {
	case resume.Watched:
		fmt.Printf("%s %s\n", style.Fg(style.SuccessColor)(icon.Get(icon.Watched)), entry)
	case resume.InProgress:
		fmt.Printf("%s %s stopped at %s\n",
			style.Fg(style.WarningColor)(icon.Get(icon.Progress)),
			entry,
			util.FormatDuration(summary.Position))
	}
}
