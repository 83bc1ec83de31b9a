package handlers_test

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/quotaguard/internal/account"
	"github.com/serroba/quotaguard/internal/messaging"
)

var errMock = errors.New("mock error")

const testIdentifier = "user-42"

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

// capturePublish returns a publish function that records every event it is
// handed.
func capturePublish[T any](events *[]*T) messaging.Publish[T] {
	return func(event *T) error {
		*events = append(*events, event)

		return nil
	}
}

// failingCounters is a counter.Store whose operations always fail.
type failingCounters struct{}

func (failingCounters) Get(_ context.Context, _ string) (int64, error) {
	return 0, errMock
}

func (failingCounters) IncrBy(_ context.Context, _ string, _ int64, _ time.Duration) (int64, time.Duration, error) {
	return 0, 0, errMock
}

func (failingCounters) Close() error { return nil }

// failingLookup is an account.Lookup whose lookups always fail.
type failingLookup struct{}

func (failingLookup) AccountType(_ context.Context, _ string) (account.Type, error) {
	return "", errMock
}
