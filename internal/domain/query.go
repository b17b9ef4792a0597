package domain

import (
	"encoding/json"
	"time"
)

// Query is the audit record of one dispatched tagging request.
type Query struct {
	id        string
	userID    string
	request   json.RawMessage
	response  json.RawMessage
	status    int
	createdAt time.Time
}

// NewQuery creates an audit record.
func NewQuery(id, userID string, request, response json.RawMessage, status int, createdAt time.Time) Query {
	return Query{
		id:        id,
		userID:    userID,
		request:   request,
		response:  response,
		status:    status,
		createdAt: createdAt,
	}
}

// ID returns the record identifier.
func (q Query) ID() string { return q.id }

// UserID returns the caller's user ID.
func (q Query) UserID() string { return q.userID }

// Request returns the request body as received.
func (q Query) Request() json.RawMessage { return q.request }

// Response returns the body replied to the caller.
func (q Query) Response() json.RawMessage { return q.response }

// Status returns the HTTP status replied to the caller.
func (q Query) Status() int { return q.status }

// CreatedAt returns when the request was dispatched.
func (q Query) CreatedAt() time.Time { return q.createdAt }
