package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomoscreen/internal/store"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Events     []jsonEvent `json:"events"`
}

type jsonEvent struct {
	ID          string            `json:"id"`
	Type        string            `json:"event_type"`
	OccurredAt  string            `json:"occurred_at"`
	DurationSec int64             `json:"duration_seconds"`
	Duration    string            `json:"duration"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// ToJSON writes the statistics events to path as an indented document.
func ToJSON(events []store.Event, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(events),
	}

	for _, e := range events {
		export.Events = append(export.Events, jsonEvent{
			ID:          e.ID,
			Type:        string(e.Type),
			OccurredAt:  e.OccurredAt.Local().Format(time.RFC3339),
			DurationSec: e.Duration,
			Duration:    formatDuration(e.Duration),
			Metadata:    e.Metadata,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
