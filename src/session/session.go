package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"portrait-screenshot/src/capture"
	"portrait-screenshot/src/notification"
	"portrait-screenshot/src/overlay"
	"portrait-screenshot/src/singleinstance"
)

var ErrSelectionCancelled = errors.New("selection cancelled")

type RegionSelectorFunc func(ctx context.Context) (overlay.Selection, bool, error)

type PersistFunc func(sel overlay.Selection) (capture.Result, error)

// ResultTarget receives the outcome of one session.
type ResultTarget interface {
	OnSuccess(res capture.Result) error
	OnFailure(err error) error
}

type Options struct {
	SelectRegion RegionSelectorFunc
	Persist      PersistFunc
	Target       ResultTarget
}

// Execute runs select then persist and reports the outcome to opts.Target.
// A cancelled selection performs no I/O.
func Execute(ctx context.Context, opts Options) (capture.Result, error) {
	if opts.SelectRegion == nil {
		return capture.Result{}, errors.New("SelectRegion is required")
	}
	if opts.Persist == nil {
		return capture.Result{}, errors.New("Persist is required")
	}
	if opts.Target == nil {
		return capture.Result{}, errors.New("Target is required")
	}

	sel, cancelled, err := opts.SelectRegion(ctx)
	if err != nil {
		err = fmt.Errorf("failed to select region: %w", err)
		_ = opts.Target.OnFailure(err)
		return capture.Result{}, err
	}
	if cancelled {
		_ = opts.Target.OnFailure(ErrSelectionCancelled)
		return capture.Result{}, ErrSelectionCancelled
	}

	res, err := opts.Persist(sel)
	if err != nil {
		_ = opts.Target.OnFailure(err)
		return capture.Result{}, err
	}
	if err := opts.Target.OnSuccess(res); err != nil {
		log.Printf("session: delivering result failed: %v", err)
	}
	return res, nil
}

// NotifyTarget reports results with desktop notifications. Cancellation is
// silent.
type NotifyTarget struct{}

func (NotifyTarget) OnSuccess(res capture.Result) error {
	notification.CaptureSaved(res.Path)
	return nil
}

func (NotifyTarget) OnFailure(err error) error {
	if errors.Is(err, ErrSelectionCancelled) {
		return nil
	}
	notification.CaptureFailed(err, errors.Is(err, capture.ErrPersist))
	return nil
}

// StdoutTarget prints the saved path, for standalone --capture runs.
type StdoutTarget struct {
	Writer io.Writer
}

func (t StdoutTarget) OnSuccess(res capture.Result) error {
	w := t.Writer
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintln(w, res.Path)
	return err
}

func (t StdoutTarget) OnFailure(err error) error {
	return nil
}

// DelegatedTarget answers a --capture client over the single-instance
// connection.
type DelegatedTarget struct {
	Conn singleinstance.Conn
}

func (t DelegatedTarget) OnSuccess(res capture.Result) error {
	if t.Conn == nil {
		return errors.New("delegated target missing connection")
	}
	return t.Conn.RespondSuccess(res.Path)
}

func (t DelegatedTarget) OnFailure(err error) error {
	if t.Conn == nil {
		return nil
	}
	switch {
	case err == nil:
		return t.Conn.RespondError("unknown session error")
	case errors.Is(err, ErrSelectionCancelled):
		return t.Conn.RespondCancelled()
	}
	return t.Conn.RespondError(err.Error())
}

// MultiTarget fans results out to several targets.
type MultiTarget []ResultTarget

func (m MultiTarget) OnSuccess(res capture.Result) error {
	var errs []error
	for _, t := range m {
		errs = append(errs, t.OnSuccess(res))
	}
	return errors.Join(errs...)
}

func (m MultiTarget) OnFailure(err error) error {
	var errs []error
	for _, t := range m {
		errs = append(errs, t.OnFailure(err))
	}
	return errors.Join(errs...)
}
