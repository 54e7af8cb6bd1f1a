// Package queue defines the catalog events exchanged over the message broker
// together with the publisher and the background consumer that records them.
package queue

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CatalogQueue is the durable queue every reconciliation event goes to.
const CatalogQueue = "catalog.upserted"

// Kinds of catalog records an event can describe.
const (
	KindMovie   = "movie"
	KindSeries  = "series"
	KindGenre   = "genre"
	KindSeason  = "season"
	KindEpisode = "episode"
)

// CatalogEvent is published after a provider payload has been reconciled
// into a local record.  Created distinguishes an insert from a refresh.
// Source names the operation that triggered the upsert (search, genre,
// detail, ...), which is what downstream consumers aggregate on.
type CatalogEvent struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	ProviderID int64  `json:"provider_id"`
	Title      string `json:"title"`
	Created    bool   `json:"created"`
	Source     string `json:"source"`
	OccurredAt string `json:"occurred_at"`
}

// NewCatalogEvent stamps a fresh event id and the current UTC time.
func NewCatalogEvent(kind string, providerID int64, title string, created bool, source string) CatalogEvent {
	return CatalogEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		ProviderID: providerID,
		Title:      title,
		Created:    created,
		Source:     source,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Action is "created" or "refreshed".
func (e CatalogEvent) Action() string {
	if e.Created {
		return "created"
	}
	return "refreshed"
}

// Line renders the event as the single line the consumer appends to the
// event log.
func (e CatalogEvent) Line() string {
	return fmt.Sprintf("[%s] %s %s | id=%d | title=%q | source=%s | event=%s\n",
		e.OccurredAt, e.Kind, e.Action(), e.ProviderID, e.Title, e.Source, e.ID)
}
