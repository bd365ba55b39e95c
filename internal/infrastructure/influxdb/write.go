package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteTransition records a single ownership transition as a point in the
// ownership_transition measurement.
//
// The action (initialize, transfer, renounce) is a tag so dashboards can
// group by transition type; the owner identifiers are fields to keep series
// cardinality independent of how many distinct owners the system has seen.
//
// The write is non-blocking: the point is buffered and flushed by the batch
// writer. Errors surface through the SetOnError callback.
func (c *Client) WriteTransition(action, previousOwner, newOwner, caller string, at time.Time) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	point := write.NewPoint(
		"ownership_transition",
		map[string]string{
			"action": action,
		},
		map[string]interface{}{
			"previous_owner": previousOwner,
			"new_owner":      newOwner,
			"caller":         caller,
			"count":          1,
		},
		at,
	)

	c.writeAPI.WritePoint(point)
	return nil
}

// WritePoint writes a pre-built point. Used for measurements outside the
// ownership trail, such as service health markers.
func (c *Client) WritePoint(point *write.Point) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.writeAPI.WritePoint(point)
	return nil
}
