package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sanctumapp/sanctum-server/internal/domain"
	"github.com/sanctumapp/sanctum-server/internal/store"
)

func TestStoreChapter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stored, err := s.StoreChapter(ctx, makeTestChapter("John", 3, 21, "NLT"))
	if err != nil {
		t.Fatalf("StoreChapter: %v", err)
	}
	if !stored {
		t.Fatal("expected stored=true")
	}

	summary, err := s.ComplianceStatus(ctx)
	if err != nil {
		t.Fatalf("ComplianceStatus: %v", err)
	}
	if summary.TotalVersesStored != 21 {
		t.Errorf("TotalVersesStored = %d, want 21", summary.TotalVersesStored)
	}
	if summary.TotalChaptersStored != 1 {
		t.Errorf("TotalChaptersStored = %d, want 1", summary.TotalChaptersStored)
	}
	if !summary.IsCompliant {
		t.Error("expected compliant")
	}
}

func TestStoreChapter_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ch := makeTestChapter("John", 3, 21, "NLT")
	for i := 0; i < 3; i++ {
		stored, err := s.StoreChapter(ctx, ch)
		if err != nil {
			t.Fatalf("StoreChapter #%d: %v", i+1, err)
		}
		if !stored {
			t.Fatalf("StoreChapter #%d: expected stored=true", i+1)
		}
	}

	// Duplicates never double-count verses.
	summary, err := s.ComplianceStatus(ctx)
	if err != nil {
		t.Fatalf("ComplianceStatus: %v", err)
	}
	if summary.TotalVersesStored != 21 {
		t.Errorf("TotalVersesStored = %d, want 21", summary.TotalVersesStored)
	}
	if summary.TotalChaptersStored != 1 {
		t.Errorf("TotalChaptersStored = %d, want 1", summary.TotalChaptersStored)
	}

	// Only the access count grows.
	got, err := s.GetChapter(ctx, "NLT", "John", 3)
	if err != nil {
		t.Fatalf("GetChapter: %v", err)
	}
	if got.AccessedCount != 3 {
		t.Errorf("AccessedCount = %d, want 3", got.AccessedCount)
	}
}

func TestStoreChapter_ComplianceRefusal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Fill the ledger close to the limit.
	stored, err := s.StoreChapter(ctx, makeTestChapter("Psalms", 119, 495, "NLT"))
	if err != nil || !stored {
		t.Fatalf("seed store: stored=%v err=%v", stored, err)
	}

	// 10 more verses would exceed 500.
	stored, err = s.StoreChapter(ctx, makeTestChapter("John", 3, 10, "NLT"))
	if err != nil {
		t.Fatalf("StoreChapter: %v", err)
	}
	if stored {
		t.Fatal("expected compliance refusal")
	}

	summary, err := s.ComplianceStatus(ctx)
	if err != nil {
		t.Fatalf("ComplianceStatus: %v", err)
	}
	if summary.TotalVersesStored != 495 {
		t.Errorf("TotalVersesStored = %d, want 495 (refusal must not mutate)", summary.TotalVersesStored)
	}

	// The refused chapter must not exist.
	if _, err := s.GetChapter(ctx, "NLT", "John", 3); err == nil {
		t.Error("expected not-found for refused chapter")
	}
}

func TestStoreChapter_VerseCountMismatch(t *testing.T) {
	s := newTestStore(t)

	ch := makeTestChapter("John", 3, 5, "NLT")
	ch.VerseCount = 7
	_, err := s.StoreChapter(context.Background(), ch)
	if err == nil {
		t.Fatal("expected error for verse count mismatch")
	}
}

func TestStoreChapter_UnknownVersionAndBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.StoreChapter(ctx, makeTestChapter("John", 3, 5, "ESV"))
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrUnknownVersion.Code {
		t.Errorf("expected unknown version error, got %v", err)
	}

	_, err = s.StoreChapter(ctx, makeTestChapter("Narnia", 1, 5, "NLT"))
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrUnknownBook.Code {
		t.Errorf("expected unknown book error, got %v", err)
	}
}

func TestGetChapter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := makeTestChapter("Romans", 8, 39, "KJV")
	want.SourceURL = "https://example.test/passages?ref=Romans.8"
	want.RawSource = "<verse_export vn=\"1\">...</verse_export>"
	if _, err := s.StoreChapter(ctx, want); err != nil {
		t.Fatalf("StoreChapter: %v", err)
	}

	got, err := s.GetChapter(ctx, "KJV", "Romans", 8)
	if err != nil {
		t.Fatalf("GetChapter: %v", err)
	}
	if got.BookName != "Romans" || got.ChapterNumber != 8 || got.VersionCode != "KJV" {
		t.Errorf("identity mismatch: %s.%d (%s)", got.BookName, got.ChapterNumber, got.VersionCode)
	}
	if got.BookAbbrev != "ROM" {
		t.Errorf("BookAbbrev = %q, want ROM", got.BookAbbrev)
	}
	if got.VerseCount != 39 || len(got.Verses) != 39 {
		t.Errorf("verse count mismatch: count=%d len=%d", got.VerseCount, len(got.Verses))
	}
	if got.SourceURL != want.SourceURL {
		t.Errorf("SourceURL = %q", got.SourceURL)
	}
	if got.RawSource != want.RawSource {
		t.Errorf("RawSource = %q", got.RawSource)
	}

	// Reads bump telemetry.
	again, err := s.GetChapter(ctx, "KJV", "Romans", 8)
	if err != nil {
		t.Fatalf("GetChapter again: %v", err)
	}
	if again.AccessedCount <= got.AccessedCount {
		t.Errorf("AccessedCount did not grow: %d then %d", got.AccessedCount, again.AccessedCount)
	}
}

func TestGetChapter_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetChapter(context.Background(), "NLT", "John", 3)
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
	if storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected status %d, got %d", store.ErrNotFound.Code, storeErr.Code)
	}
}

func TestAllChapters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, c := range []*domain.Chapter{
		makeTestChapter("John", 3, 21, "NLT"),
		makeTestChapter("Genesis", 1, 31, "NLT"),
		makeTestChapter("Psalms", 23, 6, "KJV"), // other version, must not appear
	} {
		if _, err := s.StoreChapter(ctx, c); err != nil {
			t.Fatalf("StoreChapter %s: %v", c.Key(), err)
		}
	}

	chapters, err := s.AllChapters(ctx, "NLT")
	if err != nil {
		t.Fatalf("AllChapters: %v", err)
	}
	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	for _, key := range []string{"John.3", "Genesis.1"} {
		if _, ok := chapters[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if _, ok := chapters["Psalms.23"]; ok {
		t.Error("KJV chapter leaked into NLT load")
	}
}

func TestStoreChapter_ConcurrentLimitEnforcement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// 12 distinct chapters of 60 verses each sum to 720, well past the
	// limit. However the calls interleave, at most 8 may land.
	const (
		workers   = 12
		verseEach = 60
	)

	var wg sync.WaitGroup
	storedFlags := make([]bool, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			stored, err := s.StoreChapter(ctx, makeTestChapter("Psalms", n+1, verseEach, "NLT"))
			storedFlags[n] = stored
			errs[n] = err
		}(i)
	}
	wg.Wait()

	storedCount := 0
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("StoreChapter Psalms.%d: %v", i+1, errs[i])
		}
		if storedFlags[i] {
			storedCount++
		}
	}

	summary, err := s.ComplianceStatus(ctx)
	if err != nil {
		t.Fatalf("ComplianceStatus: %v", err)
	}
	if summary.TotalVersesStored > domain.PersonalUseLimit {
		t.Fatalf("TotalVersesStored = %d, overshot limit %d",
			summary.TotalVersesStored, domain.PersonalUseLimit)
	}
	if want := storedCount * verseEach; summary.TotalVersesStored != want {
		t.Errorf("TotalVersesStored = %d, want %d (%d stores of %d verses)",
			summary.TotalVersesStored, want, storedCount, verseEach)
	}
	if summary.TotalChaptersStored != storedCount {
		t.Errorf("TotalChaptersStored = %d, want %d", summary.TotalChaptersStored, storedCount)
	}
	if !summary.IsCompliant {
		t.Error("ledger must stay compliant after concurrent refusals")
	}

	// Refused chapters left no partial rows behind.
	chapters, err := s.AllChapters(ctx, "NLT")
	if err != nil {
		t.Fatalf("AllChapters: %v", err)
	}
	if len(chapters) != storedCount {
		t.Errorf("AllChapters = %d entries, want %d", len(chapters), storedCount)
	}
	for _, ch := range chapters {
		if ch.VerseCount != verseEach {
			t.Errorf("%s: VerseCount = %d, want %d", ch.Key(), ch.VerseCount, verseEach)
		}
	}
}
