package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/pomoscreen/internal/store"
)

// ToCSV writes the statistics events to path, one row per event.
func ToCSV(events []store.Event, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Type", "Occurred", "Duration (s)", "Duration", "Metadata"}); err != nil {
		return err
	}

	for _, e := range events {
		row := []string{
			e.ID,
			string(e.Type),
			e.OccurredAt.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", e.Duration),
			formatDuration(e.Duration),
			formatMetadata(e.Metadata),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatMetadata renders k=v pairs sorted by key, separated by semicolons.
func formatMetadata(meta map[string]string) string {
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+meta[k])
	}
	return strings.Join(parts, ";")
}
