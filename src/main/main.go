package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"portrait-screenshot/src/clipboard"
	"portrait-screenshot/src/config"
	"portrait-screenshot/src/eventloop"
	"portrait-screenshot/src/gui"
	"portrait-screenshot/src/hotkey"
	"portrait-screenshot/src/logutil"
	"portrait-screenshot/src/notification"
	"portrait-screenshot/src/overlay"
	"portrait-screenshot/src/region"
	"portrait-screenshot/src/runtimeinit"
	"portrait-screenshot/src/screenshot"
	"portrait-screenshot/src/session"
	"portrait-screenshot/src/singleinstance"
	"portrait-screenshot/src/tray"
)

const appID = "com.github.portrait-screenshot"

type mainOptions struct {
	capture      bool
	showSettings bool
	settingsPath string
	logFile      string
}

func (o *mainOptions) loadOptions() config.LoadOptions {
	return config.LoadOptions{SettingsPathOverride: o.settingsPath, LogFileOverride: o.logFile}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"portrait-screenshot"}
	}
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portrait-screenshot",
		Short:         "Capture fixed-ratio screenshots from the system tray",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.capture {
				return runCapture(opts)
			}
			return runResident(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.capture, "capture", false, "Capture once and print the saved path (delegates to a running instance)")
	cmd.Flags().BoolVar(&opts.showSettings, "settings", false, "Open the settings window on start")
	cmd.Flags().StringVar(&opts.settingsPath, "settings-file", "", "Path to the settings JSON file")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write a rotating debug log to this file")
	return cmd
}

// normalizeLegacyArgs maps single-dash long flags (-capture, -log-file=x) to
// their cobra form.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}
	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"capture", "settings", "settings-file", "log-file"} {
			single := "-" + name
			if arg == single || strings.HasPrefix(arg, single+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}
	return normalized
}

func bootstrap(opts *mainOptions) (*runtimeinit.Runtime, error) {
	return runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:  opts.loadOptions(),
		SetupLogging: logutil.Setup,
	})
}

// runCapture prefers delegating to a resident and falls back to a standalone
// session.
func runCapture(opts *mainOptions) error {
	// Load .env early so SINGLEINSTANCE_PORT_* apply to the delegation scan.
	_, _ = config.LoadWithOptions(opts.loadOptions())
	return handleCaptureWithDelegation(context.Background(), singleinstance.NewClient(), os.Stdout, func() error {
		return runCaptureStandalone(opts)
	})
}

func handleCaptureWithDelegation(ctx context.Context, client singleinstance.Client, out io.Writer, fallback func() error) error {
	delegated, path, err := client.TryCapture(ctx)
	var residentErr *singleinstance.ResidentError
	switch {
	case errors.Is(err, singleinstance.ErrCancelled):
		return err
	case errors.As(err, &residentErr):
		return fmt.Errorf("resident: %w", err)
	case err != nil:
		log.Printf("Delegation error: %v; falling back to standalone", err)
		return fallback()
	case delegated:
		log.Printf("Delegated to resident")
		_, err := fmt.Fprintln(out, path)
		return err
	}
	log.Printf("No resident detected (not delegated), running standalone")
	return fallback()
}

func runCaptureStandalone(opts *mainOptions) error {
	enableDPIAwareness()
	rt, err := bootstrap(opts)
	if err != nil {
		return err
	}
	a := app.NewWithID(appID)
	a.SetIcon(fyne.NewStaticResource("portrait-screenshot.png", tray.IconPNG()))

	loop := newLoop(rt, nil, nil, nil)
	ctx, cancel := signalContext()
	defer cancel()

	var captureErr error
	go func() {
		defer fyne.Do(a.Quit)
		_, err := loop.CaptureOnce(ctx, session.MultiTarget{
			session.StdoutTarget{},
			session.NotifyTarget{},
		})
		if errors.Is(err, session.ErrSelectionCancelled) {
			err = singleinstance.ErrCancelled
		}
		captureErr = err
	}()
	a.Run()
	return captureErr
}

func runResident(opts *mainOptions) error {
	enableDPIAwareness()

	// Load .env early so SINGLEINSTANCE_PORT_* are available for pre-flight.
	_, _ = config.LoadWithOptions(opts.loadOptions())
	if port, ok := singleinstance.DetectResidentPort(context.Background()); ok {
		fmt.Printf("one is already running on port %d\n", port)
		return fmt.Errorf("resident already running on port %d", port)
	}

	rt, err := bootstrap(opts)
	if err != nil {
		return err
	}
	logMonitorConfiguration()

	a := app.NewWithID(appID)
	a.SetIcon(fyne.NewStaticResource("portrait-screenshot.png", tray.IconPNG()))

	ctx, cancel := signalContext()
	defer cancel()

	var (
		loop        *eventloop.Loop
		settingsWin *gui.SettingsWindow
	)
	trayIcon := tray.New(tray.Config{
		Title:   "Portrait Screenshot",
		Tooltip: idleTooltip(rt.Hotkey()),
		OnCapture: func() {
			if err := loop.RequestCapture(); err != nil {
				notification.Notify("Portrait Screenshot", err.Error())
			}
		},
		OnSettings: func() { fyne.Do(settingsWin.Show) },
		OnExit:     cancel,
	})

	loop = newLoop(rt, singleinstance.NewServer(), hotkey.Events(), trayIcon)
	loop.SetDefaultTooltip(idleTooltip(rt.Hotkey()))
	settingsWin = gui.NewSettingsWindow(a, gui.Deps{
		Settings: rt.Settings,
		Capture:  loop.RequestCapture,
		ApplyHotkey: func(combo string) error {
			if err := hotkey.Start(combo); err != nil {
				return err
			}
			loop.SetDefaultTooltip(idleTooltip(combo))
			return nil
		},
		Quit: cancel,
	})
	loop.AddListener(settingsWin)

	trayIcon.Start()
	defer trayIcon.Destroy()

	if err := hotkey.Start(rt.Hotkey()); err != nil {
		log.Printf("Hotkey unavailable: %v", err)
		notification.Notify("Hotkey Error", fmt.Sprintf("Could not register hotkey: %s\n%v", rt.Hotkey(), err))
	}
	defer hotkey.Stop()

	log.Printf("Portrait Screenshot initialized")
	log.Printf("Hotkey: %s", rt.Hotkey())

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("event loop stopped: %v", err)
			notification.ShowBlockingError("Portrait Screenshot", fmt.Sprintf("Could not start: %v", err))
		}
		cancel()
	}()
	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()

	if opts.showSettings {
		settingsWin.Show()
	}
	a.Run()
	return nil
}

func newLoop(rt *runtimeinit.Runtime, srv singleinstance.Server, hotkeys <-chan struct{}, status eventloop.StatusSink) *eventloop.Loop {
	regions := region.New(rt.Settings)
	var clip func(image.Image) error
	if rt.ClipboardReady {
		clip = clipboard.WriteImage
	}
	deps := eventloop.Deps{
		Selector:  overlay.NewSelector(overlay.Deps{Regions: regions}),
		Settings:  rt.Settings,
		Regions:   regions,
		Clipboard: clip,
		Server:    srv,
		Hotkeys:   hotkeys,
		Status:    status,
	}
	return eventloop.New(deps)
}

func idleTooltip(combo string) string {
	return fmt.Sprintf("Portrait Screenshot - Press %s to capture", strings.ToUpper(combo))
}

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func logMonitorConfiguration() {
	monitors, err := screenshot.System{}.Monitors()
	if err != nil {
		log.Printf("MONITOR: %v", err)
		return
	}
	log.Printf("MONITOR: Detected %d monitors", len(monitors))
	for _, m := range monitors {
		log.Printf("MONITOR: #%d %v primary=%v", m.Index, m.Bounds, m.Primary)
	}
	log.Printf("MONITOR: Virtual screen %v", screenshot.DesktopBounds(monitors))
}
