// Tests for structured catalog logging
package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bluesky/catalog-server-from-scratch/pkg/catalog"
	"github.com/bluesky/catalog-server-from-scratch/pkg/query"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("Failed to decode log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "warn", Output: &buf})

	l.Info("hidden").Send()
	l.Debug("hidden too").Send()
	l.LogFailure("entries", catalog.ErrKeyNotFound)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	if lines[0]["message"] != "Operation failed" || lines[0]["service"] != "catalog" {
		t.Errorf("Unexpected line %v", lines[0])
	}
}

func TestLogSearch(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Output: &buf})

	l.LogSearch("text", 2*time.Millisecond, 4, nil)
	l.LogSearch("text", time.Millisecond, 0, fmt.Errorf("wrapped: %w", catalog.ErrUnsupportedQuery))

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0]["level"] != "debug" || lines[0]["matched"] != float64(4) {
		t.Errorf("Unexpected success line %v", lines[0])
	}
	if lines[1]["level"] != "error" || lines[1]["code"] != "Unimplemented" {
		t.Errorf("Unexpected failure line %v", lines[1])
	}
}

func TestLogFailureLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Output: &buf})

	l.LogFailure("entries", fmt.Errorf("x: %w", catalog.ErrKeyNotFound))
	l.LogFailure("entries", fmt.Errorf("disk on fire"))

	lines := decodeLines(t, &buf)
	if lines[0]["level"] != "warn" || lines[0]["code"] != "NotFound" {
		t.Errorf("Expected warn NotFound, got %v", lines[0])
	}
	if lines[1]["level"] != "error" || lines[1]["code"] != "Unknown" {
		t.Errorf("Expected error Unknown, got %v", lines[1])
	}
}

func TestSearchObserver(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Output: &buf})

	reg := catalog.NewRegistry()
	reg.Observe(SearchObserver{Logger: l.CatalogLogger("search")})
	reg.Register("all", func(_ query.Query, c catalog.Collection) (catalog.Collection, error) {
		return c, nil
	})

	c := catalog.FromItems(nil, catalog.WithRegistry(reg))
	if _, err := c.Search(allQuery{}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["query_type"] != "all" || lines[0]["operation"] != "search" {
		t.Errorf("Unexpected lines %v", lines)
	}
}

type allQuery struct{}

func (allQuery) QueryType() string { return "all" }

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Output: &buf}).WithFields(map[string]interface{}{"tree": "default"})

	l.LogTreeLoaded("embedded", 5, 12)

	lines := decodeLines(t, &buf)
	if lines[0]["tree"] != "default" || lines[0]["arrays"] != float64(12) {
		t.Errorf("Unexpected line %v", lines[0])
	}
}

func TestGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(Config{Level: "info", Output: &buf})

	GetGlobalLogger().Info("from global").Send()
	log.Info().Msg("from zerolog")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[0]["msg"] != "from global" || lines[1]["message"] != "from zerolog" {
		t.Errorf("Unexpected lines %v", lines)
	}
	if lines[1]["service"] != "catalog" {
		t.Errorf("Expected the zerolog global to carry the service field, got %v", lines[1])
	}
}
