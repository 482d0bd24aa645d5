package service

import "github.com/vvpcampus/helpdesk/internal/helpdesk/notify"

// Emitter is the write side of the notification pipeline. Implementations
// must never block or return; a slow or broken channel may not affect the
// mutation that emitted the event.
type Emitter interface {
	Emit(ev notify.Event)
}

// NopEmitter discards events. Useful in tests and when notifications are
// disabled.
type NopEmitter struct{}

func (NopEmitter) Emit(notify.Event) {}
