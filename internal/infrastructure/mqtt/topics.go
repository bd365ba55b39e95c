package mqtt

// Topic prefixes for Castellan Core.
//
// All topics live under the flat scheme: castellan/{category}/{name}.
const (
	// TopicPrefix is the base for all Castellan topics.
	TopicPrefix = "castellan"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "castellan/system"
)

// Topics provides builders for Castellan MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
type Topics struct{}

// OwnershipState returns the retained topic carrying the current owner.
// New subscribers immediately learn who holds ownership.
//
// Example: castellan/ownership/state
func (Topics) OwnershipState() string {
	return TopicPrefix + "/ownership/state"
}

// OwnershipEvents returns the topic carrying one message per ownership
// transition (initialize, transfer, renounce). Not retained.
//
// Example: castellan/ownership/events
func (Topics) OwnershipEvents() string {
	return TopicPrefix + "/ownership/events"
}

// SystemStatus returns the retained system status topic used for the
// online/offline lifecycle messages and the LWT.
//
// Example: castellan/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}
