package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gridsoup/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPredatorExtinct  BookmarkType = "predator_extinct"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
	BookmarkExtinction       BookmarkType = "extinction"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        uint64       `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark through logger, or the default logger when nil.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	loggerOrDefault(logger).Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	crash  config.PreyCrashConfig
	stable config.StableEcosystemConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPredMin      int // minimum predator count since the last recovery
	recentPreyPeak     int // peak prey count since the last crash
	stableWindowsCount int // consecutive windows with stable populations
	predatorsGone      bool
	extinct            bool
}

// NewBookmarkDetector creates a detector with the given history size and thresholds.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 4 {
		historySize = 4 // stable ecosystem looks at the last 4 windows
	}
	return &BookmarkDetector{
		crash:         cfg.PreyCrash,
		stable:        cfg.StableEcosystem,
		history:       make([]WindowStats, historySize),
		historySize:   historySize,
		recentPredMin: -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPredatorExtinct(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Update history
	bd.addToHistory(stats)

	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	// Track predator minimum and prey peak
	if bd.recentPredMin < 0 || stats.PredCount < bd.recentPredMin {
		bd.recentPredMin = stats.PredCount
	}
	if stats.PreyCount > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.PreyCount
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n of the most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	n = min(n, count)

	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if bd.extinct || stats.PreyCount+stats.PredCount > 0 {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: "All organisms are gone",
	}
}

func (bd *BookmarkDetector) checkPredatorExtinct(stats WindowStats) *Bookmark {
	if stats.PredCount > 0 {
		bd.predatorsGone = false
		return nil
	}
	if bd.predatorsGone || stats.PredDeaths == 0 {
		return nil
	}
	bd.predatorsGone = true
	return &Bookmark{
		Type:        BookmarkPredatorExtinct,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Last predator died; %d prey remain", stats.PreyCount),
	}
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	if bd.recentPredMin <= 0 || bd.recentPredMin > 3 {
		return nil
	}

	threshold := bd.recentPredMin * 3
	if stats.PredCount >= threshold && stats.PredCount >= 6 {
		// Reset the minimum after triggering
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.PredCount

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, stats.PredCount),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.PreyCount)/float64(bd.recentPreyPeak)
	if dropPercent > bd.crash.DropPercent && stats.PreyCount < bd.recentPreyPeak-bd.crash.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.PreyCount

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.PreyCount),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	// Need both populations present
	if stats.PreyCount < bd.stable.MinPrey || stats.PredCount < bd.stable.MinPred {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.recent(4)
	if len(history) < 4 {
		return nil
	}

	prey := make([]float64, len(history))
	pred := make([]float64, len(history))
	for i, h := range history {
		prey[i] = float64(h.PreyCount)
		pred[i] = float64(h.PredCount)
	}

	if coefficientOfVariation(prey) < bd.stable.CVThreshold && coefficientOfVariation(pred) < bd.stable.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	// Trigger exactly once per stable stretch
	if bd.stableWindowsCount == bd.stable.StableWindows {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d prey, %d predators over %d windows", stats.PreyCount, stats.PredCount, bd.stable.StableWindows),
		}
	}

	return nil
}

// coefficientOfVariation returns the population standard deviation over the mean.
func coefficientOfVariation(x []float64) float64 {
	mean, variance := stat.PopMeanVariance(x, nil)
	if mean == 0 {
		return 0
	}
	return math.Sqrt(variance) / mean
}
