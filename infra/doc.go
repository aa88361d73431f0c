// Package infra holds the adapters around the core packages: logging,
// record stores, the audit log, metrics exporters, MQTT notification
// and error monitoring. Adapters depend on core interfaces, never the reverse.
package infra
