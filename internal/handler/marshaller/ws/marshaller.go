package wsmarshaller

import (
	"encoding/json"

	"github.com/rankline/live-poll-service/internal/domain/model"
)

// MarshalSnapshot prepares a personalized snapshot for WebSocket
// transmission. The wire shape comes straight from the model's JSON tags.
func MarshalSnapshot(snap *model.Snapshot) ([]byte, error) {
	return json.Marshal(snap)
}
