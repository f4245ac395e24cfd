// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package orchestrator

// Observer is told when a batch starts and when it completes.
//
// OnStarted runs on the goroutine that called Convert, before Convert returns.
// OnCompleted runs on the batch goroutine after the outcome is final and
// before the summary is written. Neither may call Cancel; use CancelAsync.
type Observer interface {
	OnStarted(o *Orchestrator)
	OnCompleted(o *Orchestrator, successful bool)
}

// ObserverFuncs adapts a pair of functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Started   func(o *Orchestrator)
	Completed func(o *Orchestrator, successful bool)
}

// OnStarted implements Observer.
func (f ObserverFuncs) OnStarted(o *Orchestrator) {
	if f.Started != nil {
		f.Started(o)
	}
}

// OnCompleted implements Observer.
func (f ObserverFuncs) OnCompleted(o *Orchestrator, successful bool) {
	if f.Completed != nil {
		f.Completed(o, successful)
	}
}

// Subscribe installs observer, replacing any previous one. nil unsubscribes.
func (o *Orchestrator) Subscribe(observer Observer) {
	o.obsMu.Lock()
	defer o.obsMu.Unlock()

	o.observer = observer
}

func (o *Orchestrator) currentObserver() Observer {
	o.obsMu.Lock()
	defer o.obsMu.Unlock()

	return o.observer
}
