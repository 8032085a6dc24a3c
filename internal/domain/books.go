package domain

// Testament values.
const (
	TestamentOld = "OT"
	TestamentNew = "NT"
)

// Book is immutable reference data describing one of the 66 canonical books.
// Number defines canonical ordering and is unique.
type Book struct {
	Number        int    `json:"book_number"`
	Name          string `json:"name"`
	Abbrev        string `json:"abbrev"`
	Testament     string `json:"testament"`
	Category      string `json:"category"`
	ColorCode     string `json:"color_code"`
	TotalChapters int    `json:"total_chapters"`
}

// CanonicalBooks returns the full 66-book canon in canonical order. The slice
// is freshly allocated on each call so callers may not corrupt the table.
func CanonicalBooks() []Book {
	out := make([]Book, len(canonicalBooks))
	copy(out, canonicalBooks)
	return out
}

// TotalChapterCount returns the number of chapters across the whole canon.
func TotalChapterCount(books []Book) int {
	total := 0
	for _, b := range books {
		total += b.TotalChapters
	}
	return total
}

var canonicalBooks = []Book{
	// Torah
	{1, "Genesis", "GEN", TestamentOld, "Torah", "blue", 50},
	{2, "Exodus", "EXO", TestamentOld, "Torah", "blue", 40},
	{3, "Leviticus", "LEV", TestamentOld, "Torah", "blue", 27},
	{4, "Numbers", "NUM", TestamentOld, "Torah", "blue", 36},
	{5, "Deuteronomy", "DEU", TestamentOld, "Torah", "blue", 34},

	// History
	{6, "Joshua", "JOS", TestamentOld, "History", "green", 24},
	{7, "Judges", "JDG", TestamentOld, "History", "green", 21},
	{8, "Ruth", "RUT", TestamentOld, "History", "green", 4},
	{9, "1 Samuel", "1SA", TestamentOld, "History", "green", 31},
	{10, "2 Samuel", "2SA", TestamentOld, "History", "green", 24},
	{11, "1 Kings", "1KI", TestamentOld, "History", "green", 22},
	{12, "2 Kings", "2KI", TestamentOld, "History", "green", 25},
	{13, "1 Chronicles", "1CH", TestamentOld, "History", "green", 29},
	{14, "2 Chronicles", "2CH", TestamentOld, "History", "green", 36},
	{15, "Ezra", "EZR", TestamentOld, "History", "green", 10},
	{16, "Nehemiah", "NEH", TestamentOld, "History", "green", 13},
	{17, "Esther", "EST", TestamentOld, "History", "green", 10},

	// Wisdom
	{18, "Job", "JOB", TestamentOld, "Wisdom", "purple", 42},
	{19, "Psalms", "PSA", TestamentOld, "Wisdom", "purple", 150},
	{20, "Proverbs", "PRO", TestamentOld, "Wisdom", "purple", 31},
	{21, "Ecclesiastes", "ECC", TestamentOld, "Wisdom", "purple", 12},
	{22, "Song of Songs", "SNG", TestamentOld, "Wisdom", "purple", 8},

	// Major Prophets
	{23, "Isaiah", "ISA", TestamentOld, "Major Prophets", "orange", 66},
	{24, "Jeremiah", "JER", TestamentOld, "Major Prophets", "orange", 52},
	{25, "Lamentations", "LAM", TestamentOld, "Major Prophets", "orange", 5},
	{26, "Ezekiel", "EZK", TestamentOld, "Major Prophets", "orange", 48},
	{27, "Daniel", "DAN", TestamentOld, "Major Prophets", "orange", 12},

	// Minor Prophets
	{28, "Hosea", "HOS", TestamentOld, "Minor Prophets", "yellow", 14},
	{29, "Joel", "JOL", TestamentOld, "Minor Prophets", "yellow", 3},
	{30, "Amos", "AMO", TestamentOld, "Minor Prophets", "yellow", 9},
	{31, "Obadiah", "OBA", TestamentOld, "Minor Prophets", "yellow", 1},
	{32, "Jonah", "JON", TestamentOld, "Minor Prophets", "yellow", 4},
	{33, "Micah", "MIC", TestamentOld, "Minor Prophets", "yellow", 7},
	{34, "Nahum", "NAH", TestamentOld, "Minor Prophets", "yellow", 3},
	{35, "Habakkuk", "HAB", TestamentOld, "Minor Prophets", "yellow", 3},
	{36, "Zephaniah", "ZEP", TestamentOld, "Minor Prophets", "yellow", 3},
	{37, "Haggai", "HAG", TestamentOld, "Minor Prophets", "yellow", 2},
	{38, "Zechariah", "ZEC", TestamentOld, "Minor Prophets", "yellow", 14},
	{39, "Malachi", "MAL", TestamentOld, "Minor Prophets", "yellow", 4},

	// Gospels
	{40, "Matthew", "MAT", TestamentNew, "Gospels", "teal", 28},
	{41, "Mark", "MRK", TestamentNew, "Gospels", "teal", 16},
	{42, "Luke", "LUK", TestamentNew, "Gospels", "teal", 24},
	{43, "John", "JHN", TestamentNew, "Gospels", "teal", 21},

	// NT History
	{44, "Acts", "ACT", TestamentNew, "NT History", "green", 28},

	// Epistles
	{45, "Romans", "ROM", TestamentNew, "Epistles", "brown", 16},
	{46, "1 Corinthians", "1CO", TestamentNew, "Epistles", "brown", 16},
	{47, "2 Corinthians", "2CO", TestamentNew, "Epistles", "brown", 13},
	{48, "Galatians", "GAL", TestamentNew, "Epistles", "brown", 6},
	{49, "Ephesians", "EPH", TestamentNew, "Epistles", "brown", 6},
	{50, "Philippians", "PHP", TestamentNew, "Epistles", "brown", 4},
	{51, "Colossians", "COL", TestamentNew, "Epistles", "brown", 4},
	{52, "1 Thessalonians", "1TH", TestamentNew, "Epistles", "brown", 5},
	{53, "2 Thessalonians", "2TH", TestamentNew, "Epistles", "brown", 3},
	{54, "1 Timothy", "1TI", TestamentNew, "Epistles", "brown", 6},
	{55, "2 Timothy", "2TI", TestamentNew, "Epistles", "brown", 4},
	{56, "Titus", "TIT", TestamentNew, "Epistles", "brown", 3},
	{57, "Philemon", "PHM", TestamentNew, "Epistles", "brown", 1},
	{58, "Hebrews", "HEB", TestamentNew, "Epistles", "brown", 13},
	{59, "James", "JAS", TestamentNew, "Epistles", "brown", 5},
	{60, "1 Peter", "1PE", TestamentNew, "Epistles", "brown", 5},
	{61, "2 Peter", "2PE", TestamentNew, "Epistles", "brown", 3},
	{62, "1 John", "1JN", TestamentNew, "Epistles", "brown", 5},
	{63, "2 John", "2JN", TestamentNew, "Epistles", "brown", 1},
	{64, "3 John", "3JN", TestamentNew, "Epistles", "brown", 1},
	{65, "Jude", "JUD", TestamentNew, "Epistles", "brown", 1},

	// Apocalyptic
	{66, "Revelation", "REV", TestamentNew, "Apocalyptic", "red", 22},
}

// CanonicalVersions returns the fixed allow-list of Bible versions this server
// is licensed to cache.
func CanonicalVersions() []Version {
	return []Version{
		{
			Code:        "NLT",
			Name:        "New Living Translation",
			Description: "Contemporary English translation",
			Source:      "nlt_api",
			LicenseType: "personal_use",
			Active:      true,
		},
		{
			Code:        "KJV",
			Name:        "King James Version",
			Description: "Traditional English translation",
			Source:      "nlt_api",
			LicenseType: "personal_use",
			Active:      true,
		},
	}
}

// KnownVersion reports whether code is on the version allow-list.
func KnownVersion(code string) bool {
	for _, v := range CanonicalVersions() {
		if v.Code == code {
			return true
		}
	}
	return false
}
