// Package events defines the notifications emitted by the matching,
// conflict and reassignment engines. Events are published on an in-process
// bus and consumed by metrics collectors and the MQTT notifier.
package events
