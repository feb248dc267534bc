package queue

import "seat-queue/internal/pkg/errs"

type stamp int

const (
	stampNone stamp = iota
	stampStarted
	stampCompleted
)

type transitionKey struct {
	from Status
	to   Status
}

type transitionRule struct {
	gated bool // only allowed while a seat is free
	stamp stamp
}

// Every legal (current, requested) pair. Anything absent is an invalid transition.
var transitions = map[transitionKey]transitionRule{
	{StatusWaiting, StatusInProgress}:   {gated: true, stamp: stampStarted},
	{StatusWaiting, StatusCancelled}:    {},
	{StatusInProgress, StatusCompleted}: {stamp: stampCompleted},
	{StatusInProgress, StatusCancelled}: {},
}

// CheckTransition validates a requested status change for entry #queueNumber.
func CheckTransition(queueNumber int64, from, to Status, inProgress, capacity int) error {
	_, err := checkTransition(queueNumber, from, to, inProgress, capacity)
	return err
}

func checkTransition(queueNumber int64, from, to Status, inProgress, capacity int) (transitionRule, error) {
	rule, ok := transitions[transitionKey{from: from, to: to}]
	if !ok {
		return transitionRule{}, errs.Wrapf(ErrInvalidTransition, "#%d: %s -> %s", queueNumber, from, to)
	}
	if rule.gated && inProgress >= capacity {
		return transitionRule{}, errs.Wrapf(ErrCapacityExceeded, "#%d: %d of %d seats taken", queueNumber, inProgress, capacity)
	}
	return rule, nil
}

// TransitionSources reports which current statuses may move to the requested one and
// whether that move is subject to the seat capacity gate. Stores that cannot run Go
// inside their critical section use it to hand the rule to the backend.
func TransitionSources(to Status) (from []Status, gated bool) {
	for _, s := range AllStatuses() {
		if rule, ok := transitions[transitionKey{from: s, to: to}]; ok {
			from = append(from, s)
			gated = gated || rule.gated
		}
	}
	return from, gated
}

// StampsStarted reports whether entering the status records started_at.
func StampsStarted(to Status) bool {
	return stampsOn(to, stampStarted)
}

// StampsCompleted reports whether entering the status records completed_at.
func StampsCompleted(to Status) bool {
	return stampsOn(to, stampCompleted)
}

func stampsOn(to Status, st stamp) bool {
	for key, rule := range transitions {
		if key.to == to && rule.stamp == st {
			return true
		}
	}
	return false
}
