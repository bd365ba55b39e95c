// Package events fans ownership transitions out to their consumers: the
// durable audit trail, the MQTT event and state topics, and the InfluxDB
// history. The audit write is mandatory; the rest are best-effort.
package events
