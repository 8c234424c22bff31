package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/poiesic/jsonmend/core"
	"github.com/poiesic/jsonmend/journal/badger"
)

var (
	dbPath = flag.String("db", "./repair_journal", "path to the repair journal")
	limit  = flag.Int("limit", 1000, "number of recent repairs to analyze")
)

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(handler))
}

// stageReport aggregates how often each repair stage produced the final
// result across a set of journaled repairs.
type stageReport struct {
	total      int
	byStage    map[core.Stage]int
	reasons    map[string]int
	attemptSum int
}

func buildReport(records []*core.RepairRecord) *stageReport {
	report := &stageReport{
		byStage: make(map[core.Stage]int),
		reasons: make(map[string]int),
	}
	for _, record := range records {
		report.total++
		report.byStage[record.Stage]++
		report.attemptSum += len(record.Attempts)
		if record.Stage == core.StageFallback && record.Reason != "" {
			report.reasons[record.Reason]++
		}
	}
	return report
}

func printReport(report *stageReport) {
	fmt.Printf("Analyzed %d repairs\n\n", report.total)

	stages := []core.Stage{
		core.StageInitial,
		core.StagePreprocessed,
		core.StageTokenRepaired,
		core.StageStructural,
		core.StageFallback,
	}
	fmt.Println("Resolutions by stage:")
	for _, stage := range stages {
		count := report.byStage[stage]
		pct := 0.0
		if report.total > 0 {
			pct = 100 * float64(count) / float64(report.total)
		}
		fmt.Printf("  %-24s %6d  %5.1f%%\n", stage, count, pct)
	}

	if report.total > 0 {
		fmt.Printf("\nAverage stages attempted: %.1f\n",
			float64(report.attemptSum)/float64(report.total))
	}

	if len(report.reasons) > 0 {
		// Most frequent reasons first
		reasons := make([]string, 0, len(report.reasons))
		for reason := range report.reasons {
			reasons = append(reasons, reason)
		}
		sort.Slice(reasons, func(i, j int) bool {
			return report.reasons[reasons[i]] > report.reasons[reasons[j]]
		})

		fmt.Println("\nFallback reasons:")
		for _, reason := range reasons {
			fmt.Printf("  %6d  %s\n", report.reasons[reason], reason)
		}
	}
}

func main() {
	flag.Parse()

	records, err := loadRecords(*dbPath, *limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	printReport(buildReport(records))
}

func loadRecords(path string, limit int) ([]*core.RepairRecord, error) {
	repo, err := badger.NewRepository(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal at %s: %w", path, err)
	}
	defer repo.Close()

	records, err := repo.GetRecentRecords(context.Background(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("journal at %s has no repairs", path)
	}
	return records, nil
}
