// Package service ties the dataset, the chain session and saved views
// together and publishes what happens on an EventBus.
//
// The Service owns the current dataset snapshot. Every reload, whether
// triggered at startup, by the file watcher or by an import, produces a new
// snapshot with a higher revision that is pushed into the session. Frames
// emitted by the session are forwarded to the bus by FramePublisher so the
// SSE hub can stream them to browsers.
package service
