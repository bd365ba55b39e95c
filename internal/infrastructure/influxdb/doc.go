// Package influxdb provides time-series recording of ownership transitions.
//
// The client wraps influxdb-client-go/v2 with non-blocking batched writes:
// one point per transition in the ownership_transition measurement, tagged by
// action. The integration is optional; Connect returns ErrDisabled when it is
// switched off and the rest of the system carries on without it.
//
// Because writes are asynchronous, failures are reported through the
// SetOnError callback rather than from the write call.
package influxdb
