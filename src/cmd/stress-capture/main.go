package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"portrait-screenshot/src/singleinstance"
)

// Outcome of one delegated capture as seen by a client.
type outcome string

const (
	outcomeOK         outcome = "ok"
	outcomeBusy       outcome = "busy"
	outcomeCancelled  outcome = "cancelled"
	outcomeNoResident outcome = "no-resident"
	outcomeError      outcome = "err"
)

type stressOptions struct {
	n        int
	deadline time.Duration
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-capture",
		Short:         "Fire concurrent --capture delegations at a running resident",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts, singleinstance.NewClient, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of clients to launch")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")
	return cmd
}

func runWithOptions(opts stressOptions, newClient func() singleinstance.Client, out io.Writer) error {
	if opts.n <= 0 {
		return fmt.Errorf("n must be positive, got %d", opts.n)
	}
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		counts = map[outcome]int{}
	)

	start := time.Now()
	for i := 0; i < opts.n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), opts.deadline)
			defer cancel()
			delegated, _, err := newClient().TryCapture(ctx)
			o := classify(delegated, err)
			mu.Lock()
			counts[o]++
			mu.Unlock()
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)
	_, err := fmt.Fprintf(out, "launched=%d ok=%d busy=%d cancelled=%d no-resident=%d err=%d elapsed=%s\n",
		opts.n, counts[outcomeOK], counts[outcomeBusy], counts[outcomeCancelled],
		counts[outcomeNoResident], counts[outcomeError], elapsed.Round(time.Millisecond))
	return err
}

func classify(delegated bool, err error) outcome {
	var residentErr *singleinstance.ResidentError
	switch {
	case errors.Is(err, singleinstance.ErrCancelled):
		return outcomeCancelled
	case errors.As(err, &residentErr) && strings.HasPrefix(residentErr.Message, "Busy"):
		return outcomeBusy
	case err != nil:
		return outcomeError
	case !delegated:
		return outcomeNoResident
	}
	return outcomeOK
}
