// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package start

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

type StartFunc func(ctx context.Context) error

func Start(ctx context.Context, stopTimeout time.Duration, run StartFunc) error {
	notify := make(chan os.Signal, 3)
	signal.Notify(notify, os.Interrupt)
	ctx, cancel := context.WithCancel(ctx)
	once := &sync.Once{}
	fin := make(chan bool)
	unlock := func() {
		close(fin)
	}
	unlockOnce := func() {
		once.Do(unlock)
	}
	runErr := atomic.Value{}
	go func() {
		err := run(ctx)
		if err != nil {
			runErr.Store(err)
		}
		unlockOnce()
	}()
	select {
	case <-notify:
	case <-fin:
	}
	cancel()
	go func() {
		<-time.After(stopTimeout)
		unlockOnce()
	}()
	<-fin
	if err, ok := runErr.Load().(error); ok {
		return err
	}
	return nil
}

// Job is one unit of work handed to RunJobs: convert one file, fetch one
// resource, whatever the caller is fanning out over.
type Job func(ctx context.Context) error

// RunJobs runs jobs concurrently, capped at concurrency simultaneous
// jobs, and reports every job's outcome rather than failing fast: a
// failing job does not stop or cancel its siblings. This is the shape
// `cmd/stc convert` needs for its `--jobs N` flag, where one bad input
// file must not abort an otherwise-successful batch. It generalizes the
// teacher's RunAll (which ran a fixed, small set of long-lived daemons
// and propagated only the first error via errgroup.Group.Wait) into a
// many-jobs, all-errors-reported fan-out.
func RunJobs(ctx context.Context, concurrency int, jobs []Job) []error {
	if concurrency <= 0 {
		concurrency = 1
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	errs := make([]error, len(jobs))
	for i, job := range jobs {
		i, job := i, job
		group.Go(func() error {
			select {
			case <-ctx.Done():
				errs[i] = ctx.Err()
			default:
				errs[i] = job(ctx)
			}
			return nil // never fail the group; errs carries the outcome
		})
	}
	group.Wait()

	return errs
}
