// Package adapter defines the notification boundary for finished downloads.
//
// Adapters publish download completion notifications to downstream systems.
// The CLI owns adapter lifecycle; users provide configuration only.
package adapter

import "context"

// DownloadCompletedEvent is the payload published when a download run
// finishes.
type DownloadCompletedEvent struct {
	EventType     string   `json:"event_type"` // always "download_completed"
	Package       string   `json:"package"`
	Version       string   `json:"version"`
	Series        string   `json:"series"`
	Arch          string   `json:"arch"`
	Outcome       string   `json:"outcome"` // success, not_found
	Artifacts     []string `json:"artifacts"`
	Dependencies  []string `json:"dependencies,omitempty"`
	BytesFetched  int64    `json:"bytes_fetched"`
	StorageTarget string   `json:"storage_target"`
	Timestamp     string   `json:"timestamp"` // ISO 8601
	DurationMs    int64    `json:"duration_ms"`
}

// Adapter publishes download completion events to a downstream system.
// Implementations must be safe for single-use per run.
type Adapter interface {
	// Publish sends a download completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *DownloadCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}
