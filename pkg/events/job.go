// Package events publishes domain activity to RabbitMQ so side channels
// (analytics, the activity worker) never block a store mutation.
package events

// Activity is the JSON payload put on the queue for one store change.
type Activity struct {
	Kind      string         `json:"kind"` // e.g. "wardrobe.item_added", "collection.favorited", "tryon.generated"
	EntityID  string         `json:"entity_id,omitempty"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

const (
	KindItemAdded       = "wardrobe.item_added"
	KindItemUpdated     = "wardrobe.item_updated"
	KindItemRemoved     = "wardrobe.item_removed"
	KindFavorited       = "collection.favorited"
	KindUnfavorited     = "collection.unfavorited"
	KindProfileUpdated  = "profile.updated"
	KindTryOnGenerated  = "tryon.generated"
	KindCollectionSaved = "collection.updated"
)
