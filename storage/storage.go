// Package storage holds uploaded track files. The core only ever sees the
// opaque locator a store returns.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrUnavailable = errors.New("track storage is not configured")

type TrackStore interface {
	// Put stores the file and returns its locator.
	Put(ctx context.Context, name string, r io.Reader, size int64) (string, error)
	Delete(ctx context.Context, locator string) error
}

type unavailable struct{}

// Unavailable is used when no backend is configured; uploads fail, metadata-only
// track creation still works.
func Unavailable() TrackStore {
	return unavailable{}
}

func (unavailable) Put(context.Context, string, io.Reader, int64) (string, error) {
	return "", ErrUnavailable
}

func (unavailable) Delete(context.Context, string) error {
	return ErrUnavailable
}
