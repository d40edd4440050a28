package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/pomoscreen/internal/store"
)

func sampleEvents() []store.Event {
	now := time.Now().UTC()
	return []store.Event{
		{
			ID:         "0b6f7c4e-1f7a-4a55-9d4e-3c1f0f5d2a11",
			Type:       store.EventPomodoroCompleted,
			OccurredAt: now.Add(-1 * time.Hour),
			Duration:   1500,
		},
		{
			ID:         "5d1e0c55-86a4-4df1-8d7a-2f0b7c6c9e22",
			Type:       store.EventBreakCancelled,
			OccurredAt: now.Add(-30 * time.Minute),
			Metadata:   map[string]string{store.MetaSource: store.SourceUser, store.MetaBreakKind: "short_rest"},
		},
		{
			ID:         "9a3c2b1d-7e6f-4a5b-8c9d-0e1f2a3b4c33",
			Type:       store.EventBreakFinished,
			OccurredAt: now.Add(-10 * time.Minute),
			Duration:   900,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleEvents(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (header + 3), got %d", len(records))
	}
	if records[0][1] != "Type" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	first := records[1]
	if first[1] != "pomodoro_completed" {
		t.Fatalf("type = %q", first[1])
	}
	if first[3] != "1500" || first[4] != "00:25:00" {
		t.Fatalf("duration = %q / %q", first[3], first[4])
	}
	if _, err := time.Parse(time.RFC3339, first[2]); err != nil {
		t.Fatalf("occurred is not RFC3339: %q", first[2])
	}

	if records[2][5] != "break_kind=short_rest;source=user" {
		t.Fatalf("metadata = %q", records[2][5])
	}
	if records[3][5] != "" {
		t.Fatalf("expected empty metadata, got %q", records[3][5])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	events := []store.Event{{
		ID:         "x",
		Type:       store.EventStayUpLateTriggered,
		OccurredAt: time.Now(),
		Metadata:   map[string]string{"note": `said "later", again`},
	}}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(events, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][5] != `note=said "later", again` {
		t.Fatalf("metadata mangled: %q", records[1][5])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleEvents(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Count != 3 || len(result.Events) != 3 {
		t.Fatalf("count = %d, events = %d, want 3", result.Count, len(result.Events))
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	e := result.Events[0]
	if e.Type != "pomodoro_completed" || e.DurationSec != 1500 || e.Duration != "00:25:00" {
		t.Fatalf("unexpected first event: %+v", e)
	}
	if e.Metadata != nil {
		t.Fatalf("metadata should be omitted, got %v", e.Metadata)
	}
	if result.Events[1].Metadata[store.MetaSource] != store.SourceUser {
		t.Fatalf("metadata lost: %v", result.Events[1].Metadata)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Events != nil {
		t.Fatal("events should be nil/null for empty export")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(sampleEvents(), path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{1500, "00:25:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatMetadata(t *testing.T) {
	if got := formatMetadata(nil); got != "" {
		t.Fatalf("nil metadata = %q", got)
	}
	got := formatMetadata(map[string]string{"b": "2", "a": "1"})
	if got != "a=1;b=2" {
		t.Fatalf("got %q, want sorted pairs", got)
	}
}
