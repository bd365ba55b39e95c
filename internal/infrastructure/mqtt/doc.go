// Package mqtt provides MQTT client connectivity for Castellan Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// Castellan publishes ownership transitions to the broker so other systems
// can react to authority changes without polling the API:
//
//	castellan/ownership/state   — retained, the current owner
//	castellan/ownership/events  — one message per transition
//	castellan/system/status     — retained, online/offline status (LWT)
//
// The client is publish-only: Castellan emits ownership events, it does not
// consume commands from the broker. All methods are safe for concurrent use.
package mqtt
