package hotkey

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	gohook "github.com/robotn/gohook"

	"portrait-screenshot/src/geometry"
	"portrait-screenshot/src/logutil"
)

var ErrRegistration = errors.New("hotkey registration failed")

type key struct {
	name     string
	rawcodes []uint16
	keycode  uint16
}

type binding struct {
	combo string
	keys  []key
}

// listener is the process-wide hook. gohook supports one hook per process.
type listener struct {
	mu      sync.Mutex
	running bool
	binding atomic.Pointer[binding]
	events  chan struct{}
	done    chan struct{}

	pointerX atomic.Int32
	pointerY atomic.Int32
	pointerK atomic.Bool
}

var global = &listener{events: make(chan struct{}, 4)}

// Start registers combo as the global capture hotkey. Calling Start again
// replaces the combination without restarting the hook.
func Start(combo string) error {
	b, err := compile(combo)
	if err != nil {
		return err
	}
	return global.start(b)
}

// Events delivers one value per hotkey press. Presses are dropped while the
// buffer is full.
func Events() <-chan struct{} { return global.events }

// Stop ends the hook. Events is not closed.
func Stop() { global.stop() }

// Current returns the active combination, or "" when not listening.
func Current() string {
	if b := global.binding.Load(); b != nil {
		return b.combo
	}
	return ""
}

// LastPointer returns the last pointer position seen by the hook.
func LastPointer() (geometry.Point, bool) {
	if !global.pointerK.Load() {
		return geometry.Point{}, false
	}
	return geometry.Point{X: int(global.pointerX.Load()), Y: int(global.pointerY.Load())}, true
}

func compile(combo string) (*binding, error) {
	names := parseHotkey(combo)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty combination", ErrRegistration)
	}
	b := &binding{combo: combo}
	for _, name := range names {
		raw := keyNameToRawcodes(name)
		code, hasCode := gohook.Keycode[name]
		if len(raw) == 0 && !hasCode {
			return nil, fmt.Errorf("%w: unknown key %q in %q", ErrRegistration, name, combo)
		}
		b.keys = append(b.keys, key{name: name, rawcodes: raw, keycode: code})
	}
	return b, nil
}

func (l *listener) start(b *binding) (err error) {
	l.binding.Store(b)
	log.Printf("Hotkey listener configured for: %s", logutil.Sanitize(b.combo, 64))

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			l.binding.Store(nil)
			err = fmt.Errorf("%w: %v", ErrRegistration, r)
		}
	}()
	evChan := gohook.Start()
	if evChan == nil {
		l.binding.Store(nil)
		return fmt.Errorf("%w: hook returned no event channel", ErrRegistration)
	}
	l.running = true
	l.done = make(chan struct{})
	go l.run(evChan, l.done)
	return nil
}

func (l *listener) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	gohook.End()
	<-l.done
	l.running = false
	l.binding.Store(nil)
}

func (l *listener) run(evChan chan gohook.Event, done chan struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in hotkey goroutine: %v", r)
		}
	}()

	pressed := map[string]bool{}
	for ev := range evChan {
		switch ev.Kind {
		case gohook.MouseMove, gohook.MouseDrag, gohook.MouseDown:
			l.pointerX.Store(int32(ev.X))
			l.pointerY.Store(int32(ev.Y))
			l.pointerK.Store(true)
		case gohook.KeyDown, gohook.KeyHold:
			b := l.binding.Load()
			if b == nil {
				continue
			}
			for _, k := range b.keys {
				if k.matches(ev) {
					pressed[k.name] = true
				}
			}
			if b.satisfied(pressed) {
				log.Printf("Hotkey activated: %s", b.combo)
				clear(pressed)
				select {
				case l.events <- struct{}{}:
				default:
				}
			}
		case gohook.KeyUp:
			b := l.binding.Load()
			if b == nil {
				continue
			}
			for _, k := range b.keys {
				if k.matches(ev) {
					delete(pressed, k.name)
				}
			}
		}
	}
	log.Printf("Hotkey event channel closed")
}

func (k key) matches(ev gohook.Event) bool {
	for _, rc := range k.rawcodes {
		if ev.Rawcode == rc {
			return true
		}
	}
	return k.keycode != 0 && ev.Keycode == k.keycode
}

func (b *binding) satisfied(pressed map[string]bool) bool {
	for _, k := range b.keys {
		if !pressed[k.name] {
			return false
		}
	}
	return true
}

// parseHotkey converts a hotkey string like "Ctrl+Shift+P" to normalized key names.
func parseHotkey(combo string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "control":
			part = "ctrl"
		case "win", "cmd", "super", "meta":
			part = "cmd"
		}
		keys = append(keys, part)
	}
	return keys
}

var specialKeys = map[string][]uint16{
	"ctrl":      {162, 163}, // VK_LCONTROL, VK_RCONTROL
	"alt":       {164, 165}, // VK_LMENU, VK_RMENU
	"shift":     {160, 161}, // VK_LSHIFT, VK_RSHIFT
	"cmd":       {91, 92},   // VK_LWIN, VK_RWIN
	"space":     {32},
	"enter":     {13},
	"return":    {13},
	"esc":       {27},
	"escape":    {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"del":       {46},
	"insert":    {45},
	"ins":       {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pgup":      {33},
	"pagedown":  {34},
	"pgdn":      {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
	"print":     {44}, // VK_SNAPSHOT
}

// keyNameToRawcodes maps a key name to Windows virtual key codes. Modifiers
// map to both their left and right variants.
func keyNameToRawcodes(name string) []uint16 {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "win" || name == "super" {
		name = "cmd"
	}
	if codes, ok := specialKeys[name]; ok {
		return codes
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48}
		}
	}
	if strings.HasPrefix(name, "f") {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)} // VK_F1 = 112
		}
	}
	return nil
}
