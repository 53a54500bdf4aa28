//go:build windows

package overlay

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"

	"portrait-screenshot/src/geometry"
)

const (
	overlayClassName         = "PortraitScreenshotOverlay"
	overlayKeyPollTimerID    = 1
	overlayKeyPollIntervalMs = 25
)

var (
	user32DLL                    = syscall.NewLazyDLL("user32.dll")
	procAllowSetForegroundWindow = user32DLL.NewProc("AllowSetForegroundWindow")
	procGetAsyncKeyState         = user32DLL.NewProc("GetAsyncKeyState")
)

var (
	registerOnce sync.Once
	registerErr  error

	// active is the overlay being shown. Only one session runs at a time
	// and all window messages arrive on the thread that created it.
	active *winOverlay
)

type winHost struct {
	deps Deps
}

func newHost(deps Deps) Selector { return &winHost{deps: deps} }

func (h *winHost) Select(ctx context.Context, req Request) (Selection, bool, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	p, err := prepare(h.deps, req)
	if err != nil {
		return Selection{}, false, fmt.Errorf("failed to prepare overlay: %w", err)
	}
	if err := registerClass(); err != nil {
		return Selection{}, false, err
	}

	ov := &winOverlay{ctx: ctx, prep: p, dirty: true}
	if err := ov.create(); err != nil {
		ov.destroy()
		return Selection{}, false, err
	}
	defer ov.destroy()

	ov.run()
	log.Printf("overlay: session ended %s with %v", p.session.Phase(), p.session.Rect())
	return p.result()
}

type winOverlay struct {
	ctx   context.Context
	prep  *prepared
	hwnd  win.HWND
	memDC win.HDC
	dib   win.HBITMAP
	old   win.HGDIOBJ
	bits  unsafe.Pointer
	dirty bool

	escapeWasDown bool
	enterWasDown  bool
	cursors       map[Cursor]win.HCURSOR
}

func registerClass() error {
	registerOnce.Do(func() {
		wc := win.WNDCLASSEX{
			CbSize:        uint32(unsafe.Sizeof(win.WNDCLASSEX{})),
			Style:         win.CS_HREDRAW | win.CS_VREDRAW,
			LpfnWndProc:   syscall.NewCallback(overlayWndProc),
			HInstance:     win.GetModuleHandle(nil),
			HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_ARROW)),
			LpszClassName: syscall.StringToUTF16Ptr(overlayClassName),
		}
		if win.RegisterClassEx(&wc) == 0 {
			registerErr = fmt.Errorf("failed to register overlay window class")
		}
	})
	return registerErr
}

func (o *winOverlay) create() error {
	b := o.prep.session.Bounds()
	o.cursors = map[Cursor]win.HCURSOR{
		CursorArrow:      win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_ARROW)),
		CursorMove:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_SIZEALL)),
		CursorResizeNWSE: win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_SIZENWSE)),
		CursorResizeNESW: win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_SIZENESW)),
		CursorResizeNS:   win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_SIZENS)),
		CursorResizeWE:   win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_SIZEWE)),
	}

	screenDC := win.GetDC(0)
	o.memDC = win.CreateCompatibleDC(screenDC)
	win.ReleaseDC(0, screenDC)
	bi := win.BITMAPINFOHEADER{
		BiSize:        uint32(unsafe.Sizeof(win.BITMAPINFOHEADER{})),
		BiWidth:       int32(b.Width),
		BiHeight:      -int32(b.Height), // top-down
		BiPlanes:      1,
		BiBitCount:    32,
		BiCompression: win.BI_RGB,
	}
	o.dib = win.CreateDIBSection(o.memDC, &bi, win.DIB_RGB_COLORS, &o.bits, 0, 0)
	if o.dib == 0 || o.bits == nil {
		return fmt.Errorf("failed to create overlay bitmap %dx%d", b.Width, b.Height)
	}
	o.old = win.SelectObject(o.memDC, win.HGDIOBJ(o.dib))

	active = o
	o.hwnd = win.CreateWindowEx(
		win.WS_EX_TOPMOST|win.WS_EX_TOOLWINDOW,
		syscall.StringToUTF16Ptr(overlayClassName),
		syscall.StringToUTF16Ptr("Portrait Screenshot"),
		win.WS_POPUP|win.WS_VISIBLE,
		int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height),
		0, 0, win.GetModuleHandle(nil), nil,
	)
	if o.hwnd == 0 {
		return fmt.Errorf("failed to create overlay window")
	}

	win.ShowWindow(o.hwnd, win.SW_SHOW)
	procAllowSetForegroundWindow.Call(uintptr(os.Getpid()))
	win.SetForegroundWindow(o.hwnd)
	win.BringWindowToTop(o.hwnd)
	win.SetFocus(o.hwnd)
	win.UpdateWindow(o.hwnd)

	if win.SetTimer(o.hwnd, overlayKeyPollTimerID, overlayKeyPollIntervalMs, 0) == 0 {
		log.Printf("overlay: failed to start keyboard poll timer")
	}
	return nil
}

func (o *winOverlay) run() {
	var msg win.MSG
	for !o.prep.session.Done() {
		ret := win.GetMessage(&msg, 0, 0, 0)
		if ret == 0 || ret == -1 {
			o.prep.session.Cancel()
			break
		}
		win.TranslateMessage(&msg)
		win.DispatchMessage(&msg)
	}
}

func (o *winOverlay) destroy() {
	if o.hwnd != 0 {
		win.KillTimer(o.hwnd, overlayKeyPollTimerID)
		win.ReleaseCapture()
		win.DestroyWindow(o.hwnd)
		o.hwnd = 0
	}
	if o.memDC != 0 {
		if o.old != 0 {
			win.SelectObject(o.memDC, o.old)
		}
		win.DeleteDC(o.memDC)
		o.memDC = 0
	}
	if o.dib != 0 {
		win.DeleteObject(win.HGDIOBJ(o.dib))
		o.dib = 0
	}
	if active == o {
		active = nil
	}
}

func (o *winOverlay) point(lParam uintptr) geometry.Point {
	b := o.prep.session.Bounds()
	x := int(int16(win.LOWORD(uint32(lParam))))
	y := int(int16(win.HIWORD(uint32(lParam))))
	return geometry.Point{X: x + b.X, Y: y + b.Y}
}

func (o *winOverlay) invalidate() {
	o.dirty = true
	win.InvalidateRect(o.hwnd, nil, false)
}

func (o *winOverlay) paint(hdc win.HDC) {
	b := o.prep.session.Bounds()
	if o.dirty {
		frame := o.prep.renderer.Render(o.prep.session)
		dst := unsafe.Slice((*byte)(o.bits), b.Width*b.Height*4)
		src := frame.Pix
		for y := 0; y < b.Height; y++ {
			row := src[y*frame.Stride : y*frame.Stride+b.Width*4]
			out := dst[y*b.Width*4 : (y+1)*b.Width*4]
			for x := 0; x < len(row); x += 4 {
				out[x] = row[x+2]   // B
				out[x+1] = row[x+1] // G
				out[x+2] = row[x]   // R
				out[x+3] = 0xFF
			}
		}
		o.dirty = false
	}
	win.BitBlt(hdc, 0, 0, int32(b.Width), int32(b.Height), o.memDC, 0, 0, win.SRCCOPY)
}

func (o *winOverlay) setCursor() {
	if c := o.cursors[o.prep.session.Cursor()]; c != 0 {
		win.SetCursor(c)
	}
}

func getAsyncKeyState(vk int32) (bool, bool) {
	state, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	s := uint16(state)
	return s&0x8000 != 0, s&0x0001 != 0
}

// pollKeys catches ENTER and ESC when the overlay did not get keyboard focus.
func (o *winOverlay) pollKeys() {
	escDown, escPressed := getAsyncKeyState(win.VK_ESCAPE)
	if !o.escapeWasDown && (escDown || escPressed) {
		o.cancel("escape")
	}
	o.escapeWasDown = escDown

	enterDown, enterPressed := getAsyncKeyState(win.VK_RETURN)
	if !o.enterWasDown && (enterDown || enterPressed) {
		o.confirm()
	}
	o.enterWasDown = enterDown
}

func (o *winOverlay) cancel(reason string) {
	if o.prep.session.Cancel() {
		log.Printf("overlay: cancelled (%s)", reason)
		win.ReleaseCapture()
	}
}

func (o *winOverlay) confirm() {
	if !o.prep.session.Confirm() {
		log.Printf("overlay: confirm ignored while %s", o.prep.session.Phase())
	}
}

func overlayWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	o := active
	if o == nil || o.hwnd != hwnd && o.hwnd != 0 {
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	}
	s := o.prep.session

	switch msg {
	case win.WM_LBUTTONDOWN:
		win.SetCapture(hwnd)
		s.PointerDown(o.point(lParam))
		o.setCursor()
		o.invalidate()
		return 0

	case win.WM_MOUSEMOVE:
		if s.PointerMove(o.point(lParam)) {
			o.invalidate()
		}
		o.setCursor()
		return 0

	case win.WM_LBUTTONUP:
		win.ReleaseCapture()
		s.PointerUp(o.point(lParam))
		o.setCursor()
		o.invalidate()
		return 0

	case win.WM_KEYDOWN:
		switch wParam {
		case win.VK_ESCAPE:
			o.escapeWasDown = true
			o.cancel("escape")
		case win.VK_RETURN:
			o.enterWasDown = true
			o.confirm()
		}
		return 0

	case win.WM_KEYUP:
		switch wParam {
		case win.VK_ESCAPE:
			o.escapeWasDown = false
		case win.VK_RETURN:
			o.enterWasDown = false
		}
		return 0

	case win.WM_TIMER:
		if wParam == overlayKeyPollTimerID {
			select {
			case <-o.ctx.Done():
				o.cancel("shutdown")
			default:
				o.pollKeys()
			}
		}
		return 0

	case win.WM_PAINT:
		var ps win.PAINTSTRUCT
		hdc := win.BeginPaint(hwnd, &ps)
		o.paint(hdc)
		win.EndPaint(hwnd, &ps)
		return 0

	case win.WM_ERASEBKGND:
		return 1

	case win.WM_SETCURSOR:
		o.setCursor()
		return 1

	case win.WM_NCHITTEST:
		return uintptr(win.HTCLIENT)

	case win.WM_DESTROY:
		// No PostQuitMessage: a stray WM_QUIT would end the next session
		// immediately.
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}
