package nlt

import (
	"errors"
	"strings"
	"testing"
)

const chapterFixture = `
<div id="bibletext">
<h2 class="bk_ch_vs_header">John 3:16-17</h2>
<verse_export orig="john_3_16" bk="john" ch="3" vn="17">
<span class="vn">17</span>God sent his Son into the world not to judge the world, but to save the world through him.
</verse_export>
<verse_export orig="john_3_16" bk="john" ch="3" vn="16">
<span class="vn">16</span>For this is how God loved the world: He gave<a class="a-tn">*</a><span class="tn">Or <em>For this is how much</em></span> his one and only Son.
</verse_export>
</div>`

func TestParseChapterHTML(t *testing.T) {
	chapter, err := parseChapterHTML(chapterFixture, "John.3", "NLT")
	if err != nil {
		t.Fatalf("parseChapterHTML: %v", err)
	}

	if chapter.Book != "John" || chapter.ChapterNumber != 3 {
		t.Errorf("reference parsed as %s.%d", chapter.Book, chapter.ChapterNumber)
	}
	if chapter.Version != "NLT" {
		t.Errorf("version = %q", chapter.Version)
	}
	if len(chapter.Verses) != 2 {
		t.Fatalf("got %d verses, want 2", len(chapter.Verses))
	}

	// Sorted ascending despite document order.
	if chapter.Verses[0].Number != 16 || chapter.Verses[1].Number != 17 {
		t.Errorf("verse order: %d, %d", chapter.Verses[0].Number, chapter.Verses[1].Number)
	}

	v16 := chapter.Verses[0]
	if strings.Contains(v16.Text, "16") {
		t.Errorf("verse number leaked into text: %q", v16.Text)
	}
	if strings.Contains(v16.Text, "this is how much") {
		t.Errorf("footnote leaked into text: %q", v16.Text)
	}
	if !strings.HasPrefix(v16.Text, "For this is how God loved the world") {
		t.Errorf("unexpected verse text: %q", v16.Text)
	}
	if chapter.RawHTML != chapterFixture {
		t.Error("raw html not preserved")
	}
}

func TestParseChapterHTML_SpanFallback(t *testing.T) {
	fixture := `
<div>
<p><span class="vn">1</span>In the beginning God created the heavens and the earth.</p>
<p><span class="vn">2</span>The earth was formless and empty.</p>
</div>`

	chapter, err := parseChapterHTML(fixture, "Genesis.1", "NLT")
	if err != nil {
		t.Fatalf("parseChapterHTML: %v", err)
	}
	if len(chapter.Verses) != 2 {
		t.Fatalf("got %d verses, want 2", len(chapter.Verses))
	}
	if got := chapter.Verses[0].Text; !strings.HasPrefix(got, "In the beginning") {
		t.Errorf("verse 1 text = %q", got)
	}
	if strings.HasPrefix(chapter.Verses[1].Text, "2") {
		t.Errorf("verse number not stripped: %q", chapter.Verses[1].Text)
	}
}

func TestParseChapterHTML_SingleVerseFallback(t *testing.T) {
	fixture := `<p>Jesus wept, overcome with sorrow at the tomb of his friend.</p>`

	chapter, err := parseChapterHTML(fixture, "John.11", "NLT")
	if err != nil {
		t.Fatalf("parseChapterHTML: %v", err)
	}
	if len(chapter.Verses) != 1 {
		t.Fatalf("got %d verses, want 1", len(chapter.Verses))
	}
	if chapter.Verses[0].Number != 1 {
		t.Errorf("synthetic verse number = %d", chapter.Verses[0].Number)
	}
}

func TestParseChapterHTML_Empty(t *testing.T) {
	_, err := parseChapterHTML("", "John.3", "NLT")
	if !errors.Is(err, ErrEmptyChapter) {
		t.Errorf("err = %v, want ErrEmptyChapter", err)
	}
}

func TestMakePreview(t *testing.T) {
	short := "Jesus wept."
	if got := makePreview(short); got != short {
		t.Errorf("short preview = %q", got)
	}

	long := strings.Repeat("abcde ", 20)
	got := makePreview(long)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long preview missing ellipsis: %q", got)
	}
	if len([]rune(got)) != previewLength+3 {
		t.Errorf("preview length = %d runes", len([]rune(got)))
	}
}

func TestSplitReference(t *testing.T) {
	tests := []struct {
		ref         string
		wantBook    string
		wantChapter int
	}{
		{"John.3", "John", 3},
		{"1 Corinthians.13", "1 Corinthians", 13},
		{"Obadiah", "Obadiah", 1},
		{"Psalms.119", "Psalms", 119},
	}
	for _, tt := range tests {
		book, chapter := splitReference(tt.ref)
		if book != tt.wantBook || chapter != tt.wantChapter {
			t.Errorf("splitReference(%q) = (%q, %d), want (%q, %d)",
				tt.ref, book, chapter, tt.wantBook, tt.wantChapter)
		}
	}
}

func TestParseSearchHTML(t *testing.T) {
	fixture := `
<div id="searchresults">
<div class="result"><a href="/John.3">John 3:16</a> For this is how God loved the world.</div>
<p class="passage-hit"><span class="ref">Romans 8:28</span> And we know that God causes everything to work together.</p>
<div class="result">x</div>
</div>`

	results := parseSearchHTML(fixture, "NLT")
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Reference != "John 3:16" {
		t.Errorf("first reference = %q", results[0].Reference)
	}
	if results[1].Reference != "Romans 8:28" {
		t.Errorf("second reference = %q", results[1].Reference)
	}
	for _, r := range results {
		if r.Version != "NLT" {
			t.Errorf("version = %q", r.Version)
		}
	}
}

func TestParseSearchHTML_Cap(t *testing.T) {
	var b strings.Builder
	b.WriteString("<div>")
	for range 30 {
		b.WriteString(`<div class="result">A sufficiently long search hit text.</div>`)
	}
	b.WriteString("</div>")

	results := parseSearchHTML(b.String(), "NLT")
	if len(results) != maxSearchResults {
		t.Errorf("got %d results, want %d", len(results), maxSearchResults)
	}
}
