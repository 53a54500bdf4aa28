package gui

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"portrait-screenshot/src/capture"
	"portrait-screenshot/src/config"
	"portrait-screenshot/src/geometry"
)

const (
	portraitOption  = "9:16 (Portrait)"
	landscapeOption = "16:9 (Landscape)"
)

// Deps are the actions the settings window triggers.
type Deps struct {
	Settings *config.Store
	// Capture starts a session, eventloop.Loop.RequestCapture.
	Capture func() error
	// ApplyHotkey re-registers the global hotkey after it was edited.
	ApplyHotkey func(combo string) error
	Quit        func()
}

// SettingsWindow edits a draft copy of the settings and commits it on Save.
// All methods except the Listener ones must run on the fyne goroutine.
type SettingsWindow struct {
	app   fyne.App
	deps  Deps
	win   fyne.Window
	draft config.Settings
	// updating suppresses entry callbacks while fields are set from code.
	updating bool

	hotkey    *widget.Entry
	saveDir   *widget.Entry
	prefix    *widget.Entry
	width     *widget.Entry
	height    *widget.Entry
	lock      *widget.Check
	ratio     *widget.RadioGroup
	clipboard *widget.Check

	ratioLabel   *widget.Label
	regionsLabel *widget.Label
	info         *widget.Label
}

func NewSettingsWindow(app fyne.App, deps Deps) *SettingsWindow {
	return &SettingsWindow{app: app, deps: deps}
}

// Show opens the window, building it on first use.
func (w *SettingsWindow) Show() {
	if w.win == nil {
		w.build()
	}
	w.load()
	w.win.Show()
	w.win.RequestFocus()
}

// Hide minimizes the window to the tray.
func (w *SettingsWindow) Hide() {
	if w.win != nil {
		w.win.Hide()
	}
}

// CaptureCompleted implements eventloop.Listener.
func (w *SettingsWindow) CaptureCompleted(res capture.Result) {
	fyne.Do(w.refreshRegions)
}

// DimensionsChanged implements eventloop.Listener.
func (w *SettingsWindow) DimensionsChanged(width, height int) {
	fyne.Do(func() { w.setDimensions(width, height) })
}

func (w *SettingsWindow) build() {
	w.win = w.app.NewWindow("Portrait Screenshot")
	w.win.SetCloseIntercept(w.win.Hide)

	w.hotkey = widget.NewEntry()
	w.hotkey.SetPlaceHolder("e.g., ctrl+shift+p")
	w.saveDir = widget.NewEntry()
	w.prefix = widget.NewEntry()
	w.prefix.SetPlaceHolder("Leave empty for timestamp, or enter prefix (e.g., picture, screenshot)")
	w.width = widget.NewEntry()
	w.width.OnChanged = w.onWidthChanged
	w.height = widget.NewEntry()
	w.height.OnChanged = w.onHeightChanged
	w.lock = widget.NewCheck("Lock Aspect Ratio", w.onLockChanged)
	w.ratio = widget.NewRadioGroup([]string{portraitOption, landscapeOption}, w.onRatioChanged)
	w.ratio.Horizontal = true
	w.ratio.Required = true
	w.clipboard = widget.NewCheck("Copy screenshot to clipboard", nil)
	w.ratioLabel = widget.NewLabel("")
	w.ratioLabel.TextStyle = fyne.TextStyle{Italic: true}
	w.regionsLabel = widget.NewLabel("")
	w.regionsLabel.TextStyle = fyne.TextStyle{Italic: true}
	w.regionsLabel.Wrapping = fyne.TextWrapWord
	w.info = widget.NewLabel("")
	w.info.Alignment = fyne.TextAlignCenter

	browse := widget.NewButton("Browse", w.browse)
	form := widget.NewForm(
		widget.NewFormItem("Hotkey:", w.hotkey),
		widget.NewFormItem("Save to:", container.NewBorder(nil, nil, nil, browse, w.saveDir)),
		widget.NewFormItem("File prefix:", w.prefix),
		widget.NewFormItem("Width:", w.width),
		widget.NewFormItem("Height:", w.height),
	)

	title := widget.NewLabelWithStyle("Portrait Screenshot Tool", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	settings := widget.NewCard("Settings", "", container.NewVBox(
		form,
		container.NewHBox(w.lock, w.ratio, layout.NewSpacer()),
		w.ratioLabel,
		w.regionsLabel,
		w.clipboard,
		widget.NewButton("Save Settings", w.save),
	))

	captureBtn := widget.NewButton("Capture Now", w.captureNow)
	captureBtn.Importance = widget.HighImportance
	exitBtn := widget.NewButton("Exit Application", w.confirmQuit)
	exitBtn.Importance = widget.DangerImportance

	w.win.SetContent(container.NewVBox(
		title,
		settings,
		container.NewGridWithColumns(2, captureBtn, widget.NewButton("Minimize to Tray", w.win.Hide)),
		exitBtn,
		w.info,
	))
	w.win.Resize(fyne.NewSize(520, 0))
}

// load resets every field from the stored settings.
func (w *SettingsWindow) load() {
	w.draft = w.deps.Settings.Get()
	w.updating = true
	defer func() { w.updating = false }()

	w.hotkey.SetText(w.draft.Hotkey)
	w.saveDir.SetText(w.draft.SaveLocation)
	w.prefix.SetText(w.draft.FilePrefix)
	w.clipboard.SetChecked(w.draft.CopyToClipboard)
	w.lock.SetChecked(w.draft.LockRatio)
	w.ratio.SetSelected(optionFor(geometry.ParseAspectMode(w.draft.RatioMode)))
	w.syncDimensions()
	w.refreshRatio()
	w.refreshRegions()
	w.info.SetText(fmt.Sprintf("Press %s to capture\nRuns in system tray when minimized", strings.ToUpper(w.draft.Hotkey)))
}

func (w *SettingsWindow) onWidthChanged(text string) {
	v, ok := parseDimension(text)
	if w.updating || !ok {
		return
	}
	w.draft.SetWidth(v)
	w.withUpdating(func() { w.height.SetText(strconv.Itoa(w.draft.Height)) })
	w.refreshRatio()
}

func (w *SettingsWindow) onHeightChanged(text string) {
	v, ok := parseDimension(text)
	if w.updating || !ok {
		return
	}
	w.draft.SetHeight(v)
	w.withUpdating(func() { w.width.SetText(strconv.Itoa(w.draft.Width)) })
	w.refreshRatio()
}

func (w *SettingsWindow) onLockChanged(locked bool) {
	if w.ratio != nil {
		if locked {
			w.ratio.Enable()
		} else {
			w.ratio.Disable()
		}
	}
	if w.updating {
		return
	}
	w.draft.SetLockRatio(locked)
	w.withUpdating(w.syncDimensions)
	w.refreshRatio()
}

func (w *SettingsWindow) onRatioChanged(option string) {
	if w.updating || option == "" {
		return
	}
	w.draft.SetRatioMode(modeFor(option))
	w.withUpdating(w.syncDimensions)
	w.refreshRatio()
}

// setDimensions mirrors a size chosen in the overlay. The event loop has
// already stored it.
func (w *SettingsWindow) setDimensions(width, height int) {
	if w.win == nil {
		return
	}
	w.draft.SetDimensions(width, height)
	w.withUpdating(w.syncDimensions)
	w.refreshRatio()
}

func (w *SettingsWindow) save() {
	oldHotkey := w.deps.Settings.Get().Hotkey
	draft := w.draft
	draft.Hotkey = strings.TrimSpace(w.hotkey.Text)
	if draft.Hotkey == "" {
		draft.Hotkey = config.DefaultHotkey
	}
	draft.SaveLocation = strings.TrimSpace(w.saveDir.Text)
	draft.FilePrefix = strings.TrimSpace(w.prefix.Text)
	draft.CopyToClipboard = w.clipboard.Checked

	// The hotkey is registered before anything is persisted so a bad combo
	// never reaches the settings file.
	hotkeyChanged := draft.Hotkey != oldHotkey && w.deps.ApplyHotkey != nil
	if hotkeyChanged {
		if err := w.deps.ApplyHotkey(draft.Hotkey); err != nil {
			log.Printf("gui: hotkey %q not applied: %v", draft.Hotkey, err)
			dialog.ShowError(fmt.Errorf("Could not register hotkey: %s\n%w", draft.Hotkey, err), w.win)
			return
		}
	}

	err := w.deps.Settings.Update(func(s *config.Settings) {
		s.Hotkey = draft.Hotkey
		s.SaveLocation = draft.SaveLocation
		s.FilePrefix = draft.FilePrefix
		s.Width = draft.Width
		s.Height = draft.Height
		s.LockRatio = draft.LockRatio
		s.RatioMode = draft.RatioMode
		s.CopyToClipboard = draft.CopyToClipboard
	})
	if err != nil {
		log.Printf("gui: saving settings failed: %v", err)
		if hotkeyChanged {
			if rerr := w.deps.ApplyHotkey(oldHotkey); rerr != nil {
				log.Printf("gui: restoring hotkey %q failed: %v", oldHotkey, rerr)
			}
		}
		dialog.ShowError(err, w.win)
		return
	}
	w.load()
	dialog.ShowInformation("Settings Saved", "Your settings have been saved successfully!", w.win)
}

func (w *SettingsWindow) browse() {
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, w.win)
			return
		}
		if dir == nil {
			return
		}
		w.saveDir.SetText(dir.Path())
	}, w.win)
}

func (w *SettingsWindow) captureNow() {
	if w.deps.Capture == nil {
		return
	}
	if err := w.deps.Capture(); err != nil {
		log.Printf("gui: capture request refused: %v", err)
		dialog.ShowError(err, w.win)
	}
}

func (w *SettingsWindow) confirmQuit() {
	dialog.ShowConfirm("Exit", "Are you sure you want to exit?", func(ok bool) {
		if ok && w.deps.Quit != nil {
			w.deps.Quit()
		}
	}, w.win)
}

func (w *SettingsWindow) syncDimensions() {
	w.width.SetText(strconv.Itoa(w.draft.Width))
	w.height.SetText(strconv.Itoa(w.draft.Height))
}

func (w *SettingsWindow) refreshRatio() {
	w.ratioLabel.SetText(w.draft.RatioLabel())
}

func (w *SettingsWindow) refreshRegions() {
	if w.regionsLabel == nil {
		return
	}
	w.regionsLabel.SetText(w.deps.Settings.Get().LastRegionsLabel())
}

func (w *SettingsWindow) withUpdating(fn func()) {
	prev := w.updating
	w.updating = true
	fn()
	w.updating = prev
}

// parseDimension accepts only values the settings would store unchanged, so
// intermediate keystrokes are not clamped under the user.
func parseDimension(text string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < config.MinDimension || v > config.MaxDimension {
		return 0, false
	}
	return v, true
}

func optionFor(mode geometry.AspectMode) string {
	if mode == geometry.Landscape {
		return landscapeOption
	}
	return portraitOption
}

func modeFor(option string) geometry.AspectMode {
	if option == landscapeOption {
		return geometry.Landscape
	}
	return geometry.Portrait
}
