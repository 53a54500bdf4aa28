package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portrait-screenshot/src/singleinstance"
)

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		out  []string
	}{
		{
			name: "Normalizes long single dash flags",
			in:   []string{"portrait-screenshot", "-capture", "-log-file", "/tmp/debug.log"},
			out:  []string{"portrait-screenshot", "--capture", "--log-file", "/tmp/debug.log"},
		},
		{
			name: "Normalizes equals form",
			in:   []string{"portrait-screenshot", "-capture=true", "-settings-file=/tmp/s.json"},
			out:  []string{"portrait-screenshot", "--capture=true", "--settings-file=/tmp/s.json"},
		},
		{
			name: "Leaves other flags unchanged",
			in:   []string{"portrait-screenshot", "--settings", "-x", "--other"},
			out:  []string{"portrait-screenshot", "--settings", "-x", "--other"},
		},
		{
			name: "Does not touch flag values",
			in:   []string{"portrait-screenshot", "--log-file", "-capture.log"},
			out:  []string{"portrait-screenshot", "--log-file", "-capture.log"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, normalizeLegacyArgs(tt.in))
		})
	}
}

func TestNewRootCmdParsesFlags(t *testing.T) {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--capture", "--log-file", "/tmp/debug.log", "--settings-file", "/tmp/s.json"}))

	assert.True(t, opts.capture)
	assert.False(t, opts.showSettings)
	lo := opts.loadOptions()
	assert.Equal(t, "/tmp/debug.log", lo.LogFileOverride)
	assert.Equal(t, "/tmp/s.json", lo.SettingsPathOverride)
}

type fakeClient struct {
	delegated bool
	path      string
	err       error
	called    bool
}

func (f *fakeClient) TryCapture(ctx context.Context) (bool, string, error) {
	f.called = true
	return f.delegated, f.path, f.err
}

func TestHandleCaptureWithDelegation(t *testing.T) {
	tests := []struct {
		name         string
		client       *fakeClient
		wantFallback bool
		wantOut      string
		wantErr      error
	}{
		{name: "delegated", client: &fakeClient{delegated: true, path: "/tmp/Portrait_1.png"}, wantOut: "/tmp/Portrait_1.png\n"},
		{name: "no resident", client: &fakeClient{}, wantFallback: true},
		{name: "transport error", client: &fakeClient{delegated: true, err: errors.New("connection reset")}, wantFallback: true},
		{name: "cancelled", client: &fakeClient{delegated: true, err: singleinstance.ErrCancelled}, wantErr: singleinstance.ErrCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			fallbackCalled := false
			err := handleCaptureWithDelegation(context.Background(), tt.client, &out, func() error {
				fallbackCalled = true
				return nil
			})

			assert.True(t, tt.client.called)
			assert.Equal(t, tt.wantFallback, fallbackCalled)
			assert.Equal(t, tt.wantOut, out.String())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHandleCaptureResidentErrorDoesNotFallBack(t *testing.T) {
	client := &fakeClient{delegated: true, err: &singleinstance.ResidentError{Message: "Busy, please retry"}}
	fallbackCalled := false

	err := handleCaptureWithDelegation(context.Background(), client, &bytes.Buffer{}, func() error {
		fallbackCalled = true
		return nil
	})

	assert.EqualError(t, err, "resident: Busy, please retry")
	assert.False(t, fallbackCalled)
}

func TestIdleTooltip(t *testing.T) {
	assert.Equal(t, "Portrait Screenshot - Press CTRL+SHIFT+P to capture", idleTooltip("ctrl+shift+p"))
}
