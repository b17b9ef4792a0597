package query

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/taggate/internal/domain"
)

// queryRow is the stored JSON form of a query record.
type queryRow struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Request   json.RawMessage `json:"request"`
	Response  json.RawMessage `json:"response"`
	Status    int             `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

func queryToJSON(q domain.Query) ([]byte, error) {
	row := queryRow{
		ID:        q.ID(),
		UserID:    q.UserID(),
		Request:   rawOrNull(q.Request()),
		Response:  rawOrNull(q.Response()),
		Status:    q.Status(),
		CreatedAt: q.CreatedAt().UTC(),
	}
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	return data, nil
}

func queryFromJSON(data []byte) (domain.Query, error) {
	var row queryRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domain.Query{}, fmt.Errorf("unmarshal query: %w", err)
	}
	return domain.NewQuery(row.ID, row.UserID, row.Request, row.Response, row.Status, row.CreatedAt), nil
}

// rawOrNull keeps invalid JSON out of the record; such bodies never reach
// dispatch, but the record must stay decodable.
func rawOrNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 || !json.Valid(raw) {
		return json.RawMessage("null")
	}
	return raw
}
