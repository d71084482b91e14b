// Package common defines shared value types used across all layers of the
// Sentencia-Intelligence platform: identifiers, timestamps, pagination,
// API response envelopes, and messaging carriers.
package common

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ID is the canonical entity identifier type (UUID v4 in string form).
type ID string

// NewID generates a new random ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// String returns the ID as a plain string.
func (id ID) String() string { return string(id) }

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool { return id == "" }

// BaseEntity carries the fields common to all persisted entities.
type BaseEntity struct {
	ID        ID        `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates UpdatedAt to the current time.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}

// ─────────────────────────────────────────────────────────────────────────────
// Pagination
// ─────────────────────────────────────────────────────────────────────────────

// Pagination describes an offset/limit page request.
type Pagination struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

// Normalize clamps the pagination parameters to sane bounds.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 200 {
		p.PageSize = 200
	}
}

// Offset returns the row offset implied by the page parameters.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PagedResult wraps a page of items together with the total count.
type PagedResult[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// ─────────────────────────────────────────────────────────────────────────────
// API response envelope
// ─────────────────────────────────────────────────────────────────────────────

// APIResponse is the uniform JSON envelope returned by the HTTP interface.
type APIResponse[T any] struct {
	Success bool      `json:"success"`
	Data    T         `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// APIError is the serialized error payload inside an APIResponse.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// OK builds a successful APIResponse around data.
func OK[T any](data T) APIResponse[T] {
	return APIResponse[T]{Success: true, Data: data}
}

// ─────────────────────────────────────────────────────────────────────────────
// Domain events and messaging carriers
// ─────────────────────────────────────────────────────────────────────────────

// DomainEvent is the envelope published on the message bus for every
// significant state change (document ingested, analysis completed).
type DomainEvent struct {
	EventID    ID              `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// ProducerMessage is the transport-agnostic outbound message passed to the
// messaging layer.  The kafka producer converts it to a kafka.Message.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
	Partition int
}

// Message is the transport-agnostic inbound message delivered to consumers.
type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
}

// MessageHandler processes one consumed message.  Returning an error triggers
// the consumer's retry and dead-letter handling.
type MessageHandler func(ctx context.Context, msg *Message) error

// TopicConfig describes a topic to be created by the topic manager.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
	CleanupPolicy     string
	MaxMessageBytes   int
	Configs           map[string]string
}

// BatchItemError records the failure of a single message within a batch.
type BatchItemError struct {
	Index int
	Topic string
	Error error
}

// BatchPublishResult summarizes the outcome of a batch publish.
type BatchPublishResult struct {
	Succeeded int
	Failed    int
	Errors    []BatchItemError
}
