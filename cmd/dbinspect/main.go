package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/sanctumapp/sanctum-server/internal/store/sqlite"
)

func main() {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Sanctum/data/bible_cache.db")
	}

	db, err := sqlite.Open(dbPath, slog.New(slog.DiscardHandler))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	fmt.Println("=== Bible Cache Inspection ===")
	fmt.Println()

	compliance, err := db.ComplianceStatus(ctx)
	if err != nil {
		log.Fatalf("Failed to read compliance ledger: %v", err)
	}

	fmt.Println("Compliance ledger:")
	fmt.Printf("  Verses stored:   %d / %d (%.1f%%)\n",
		compliance.TotalVersesStored, compliance.PersonalUseLimit, compliance.UsagePercentage())
	fmt.Printf("  Chapters stored: %d\n", compliance.TotalChaptersStored)
	fmt.Printf("  License mode:    %s\n", compliance.LicenseMode)
	fmt.Printf("  Compliant:       %v\n", compliance.IsCompliant)
	fmt.Println()

	versions, err := db.Versions(ctx)
	if err != nil {
		log.Fatalf("Failed to list versions: %v", err)
	}

	for _, v := range versions {
		chapters, err := db.AllChapters(ctx, v.Code)
		if err != nil {
			log.Fatalf("Failed to load chapters for %s: %v", v.Code, err)
		}
		fmt.Printf("Version %s (%s): %d chapters cached\n", v.Code, v.Name, len(chapters))

		shown := 0
		for key, ch := range chapters {
			if shown >= 5 {
				fmt.Printf("  ... and %d more\n", len(chapters)-shown)
				break
			}
			fmt.Printf("  %-20s %3d verses, accessed %d times\n", key, ch.VerseCount, ch.AccessedCount)
			shown++
		}
	}
	fmt.Println()

	stats, err := db.UsageStatistics(ctx)
	if err != nil {
		log.Fatalf("Failed to read usage statistics: %v", err)
	}

	fmt.Println("Recent usage:")
	if len(stats.RecentUsage) == 0 {
		fmt.Println("  (none)")
	}
	for _, entry := range stats.RecentUsage {
		fmt.Printf("  %s  %-8s %s %d (%d verses)\n",
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.Action, entry.BookName, entry.ChapterNumber, entry.VerseCount)
	}
	fmt.Println()

	fmt.Println("Most accessed chapters:")
	if len(stats.PopularChapters) == 0 {
		fmt.Println("  (none)")
	}
	for _, pc := range stats.PopularChapters {
		fmt.Printf("  %s %d (%s): %d reads\n", pc.BookName, pc.ChapterNumber, pc.VersionCode, pc.AccessedCount)
	}
}
