package messaging

type ChangeTopic string

const (
	TrackingTopic     ChangeTopic = "tracking"
	CollectionChanged ChangeTopic = "collection_changed"
)

// CollectionChange is published when a collection was edited upstream and
// cached fetches of it are stale.
type CollectionChange struct {
	Collection string `json:"collection"`
}
