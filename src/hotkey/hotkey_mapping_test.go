package hotkey

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyNameToRawcodes(t *testing.T) {
	tests := []struct {
		keyName  string
		expected []uint16
	}{
		{"ctrl", []uint16{162, 163}},
		{"alt", []uint16{164, 165}},
		{"shift", []uint16{160, 161}},
		{"win", []uint16{91, 92}},
		{"cmd", []uint16{91, 92}},
		{"super", []uint16{91, 92}},

		{"a", []uint16{65}},
		{"p", []uint16{80}},
		{"z", []uint16{90}},

		{"0", []uint16{48}},
		{"9", []uint16{57}},

		{"f1", []uint16{112}},
		{"f12", []uint16{123}},
		{"f24", []uint16{135}},

		{"space", []uint16{32}},
		{"enter", []uint16{13}},
		{"esc", []uint16{27}},
		{"print", []uint16{44}},

		{"f25", nil},
		{"unknown", nil},
	}

	for _, tt := range tests {
		t.Run(tt.keyName, func(t *testing.T) {
			assert.Equal(t, tt.expected, keyNameToRawcodes(tt.keyName))
		})
	}
}

func TestParseHotkey(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"ctrl+shift+p", []string{"ctrl", "shift", "p"}},
		{"Ctrl+Shift+P", []string{"ctrl", "shift", "p"}},
		{"Control + Alt + F9", []string{"ctrl", "alt", "f9"}},
		{"Win+Shift+S", []string{"cmd", "shift", "s"}},
		{"Super+Alt+T", []string{"cmd", "alt", "t"}},
		{"ctrl++p", []string{"ctrl", "p"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseHotkey(tt.input))
		})
	}
}

func TestCompileRejectsUnknownKeys(t *testing.T) {
	_, err := compile("ctrl+shift+nosuchkey")
	assert.True(t, errors.Is(err, ErrRegistration))

	_, err = compile("   ")
	assert.True(t, errors.Is(err, ErrRegistration))

	b, err := compile("ctrl+shift+p")
	if assert.NoError(t, err) {
		assert.Len(t, b.keys, 3)
		assert.Equal(t, "ctrl+shift+p", b.combo)
	}
}

func TestBindingSatisfied(t *testing.T) {
	b, err := compile("ctrl+p")
	if !assert.NoError(t, err) {
		return
	}
	assert.False(t, b.satisfied(map[string]bool{"ctrl": true}))
	assert.True(t, b.satisfied(map[string]bool{"ctrl": true, "p": true}))
}
