package telemetry

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

// runLogger returns a JSON logger tagged like a game run, and its output.
func runLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)).With("run_id", "run-42"), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decoding %q: %v", buf.String(), err)
	}
	return line
}

func TestLogLinesCarryRunID(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		log  func(*slog.Logger)
	}{
		{"stats", "stats", func(l *slog.Logger) { WindowStats{WindowEndTick: 300, PreyCount: 12}.LogStats(l) }},
		{"perf", "perf", func(l *slog.Logger) { PerfStats{TicksPerSecond: 50}.LogStats(l) }},
		{"bookmark", "bookmark", func(l *slog.Logger) {
			Bookmark{Type: BookmarkPreyCrash, Tick: 300, Description: "crash"}.LogBookmark(l)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := runLogger(t)
			tt.log(logger)

			line := decodeLine(t, buf)
			if line["msg"] != tt.msg {
				t.Errorf("msg = %v, want %q", line["msg"], tt.msg)
			}
			if line["run_id"] != "run-42" {
				t.Errorf("run_id = %v, want run-42", line["run_id"])
			}
		})
	}
}

func TestStatsLogFields(t *testing.T) {
	logger, buf := runLogger(t)
	WindowStats{WindowEndTick: 300, PreyCount: 12, PredCount: 3}.LogStats(logger)

	line := decodeLine(t, buf)
	if line["prey"] != float64(12) || line["pred"] != float64(3) || line["window_end"] != float64(300) {
		t.Errorf("line = %v, want prey 12, pred 3, window_end 300", line)
	}
}

func TestPerfLogGroupsPhasesInTickOrder(t *testing.T) {
	logger, buf := runLogger(t)
	PerfStats{
		TicksPerSecond: 50,
		PhasePct:       map[string]float64{PhaseUpdate: 90.04, PhaseCensus: 0.05},
	}.LogStats(logger)

	perf, ok := decodeLine(t, buf)["perf"].(map[string]any)
	if !ok {
		t.Fatalf("perf group missing from %s", buf.String())
	}
	if perf["update_pct"] != 90.0 {
		t.Errorf("update_pct = %v, want 90", perf["update_pct"])
	}
	if _, ok := perf["census_pct"]; ok {
		t.Error("phases under 0.1% should be left out")
	}
}
