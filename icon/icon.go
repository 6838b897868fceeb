// Package icon manages marker images for billboard creation. Assets load
// asynchronously: conversion registers a one-shot readiness callback
// instead of blocking, and the callback may fire after the owning
// conversion context has been discarded.
package icon

import (
	"image"
	"sync"
)

// State is the lifecycle of an icon asset.
type State int

const (
	// StateLoading means the asset is not yet usable; register WhenReady.
	StateLoading State = iota
	// StateReady means a decoded bitmap is available.
	StateReady
	// StateFailed means the source was missing, undecodable or of an
	// unsupported kind. Failed assets never fire callbacks.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

// Asset is a single icon image keyed by its source name.
type Asset struct {
	mu        sync.Mutex
	src       string
	img       image.Image
	state     State
	callbacks []func(*Asset)
}

// Src returns the source name the asset was resolved from.
func (a *Asset) Src() string {
	return a.src
}

// State returns the current lifecycle state.
func (a *Asset) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Image returns the decoded bitmap, or nil unless the asset is ready.
func (a *Asset) Image() image.Image {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateReady {
		return nil
	}
	return a.img
}

// WhenReady registers a one-shot callback fired when the asset becomes
// ready. A callback registered on an already-ready asset fires
// immediately; one registered on a failed asset is dropped silently.
// There is no way to cancel a registered callback.
func (a *Asset) WhenReady(fn func(*Asset)) {
	a.mu.Lock()
	switch a.state {
	case StateReady:
		a.mu.Unlock()
		fn(a)
		return
	case StateFailed:
		a.mu.Unlock()
		return
	}
	a.callbacks = append(a.callbacks, fn)
	a.mu.Unlock()
}

// MarkReady installs the decoded bitmap and fires pending callbacks in
// registration order. Marking a non-loading asset is a no-op.
func (a *Asset) MarkReady(img image.Image) {
	a.mu.Lock()
	if a.state != StateLoading || img == nil {
		a.mu.Unlock()
		return
	}
	a.img = img
	a.state = StateReady
	pending := a.callbacks
	a.callbacks = nil
	a.mu.Unlock()

	for _, fn := range pending {
		fn(a)
	}
}

// MarkFailed drops the asset and any pending callbacks.
func (a *Asset) MarkFailed() {
	a.mu.Lock()
	if a.state == StateLoading {
		a.state = StateFailed
		a.callbacks = nil
	}
	a.mu.Unlock()
}
