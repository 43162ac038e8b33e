package language

import "strings"

type mapperKind int

const (
	kindPassThrough mapperKind = iota
	kindSinhala
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
	kind    mapperKind
}

var languages = []entry{
	{"en", "eng", "English", []string{"english"}, kindPassThrough},
	{"si", "sin", "Sinhala", []string{"sinhala", "sinhalese"}, kindSinhala},
	{"ta", "tam", "Tamil", []string{"tamil"}, kindPassThrough},
	{"hi", "hin", "Hindi", []string{"hindi"}, kindPassThrough},
	{"es", "spa", "Spanish", []string{"spanish"}, kindPassThrough},
	{"fr", "fra", "French", []string{"french"}, kindPassThrough},
	{"de", "deu", "German", []string{"german"}, kindPassThrough},
	{"ja", "jpn", "Japanese", []string{"japanese"}, kindPassThrough},
	{"ko", "kor", "Korean", []string{"korean"}, kindPassThrough},
	{"zh", "zho", "Chinese", []string{"chinese"}, kindPassThrough},
	{"ru", "rus", "Russian", []string{"russian"}, kindPassThrough},
	{"ar", "ara", "Arabic", []string{"arabic"}, kindPassThrough},
	{"pt", "por", "Portuguese", []string{"portuguese"}, kindPassThrough},
	{"it", "ita", "Italian", []string{"italian"}, kindPassThrough},
	{"nl", "nld", "Dutch", []string{"dutch"}, kindPassThrough},
	{"tr", "tur", "Turkish", []string{"turkish"}, kindPassThrough},
	{"vi", "vie", "Vietnamese", []string{"vietnamese"}, kindPassThrough},
	{"th", "tha", "Thai", []string{"thai"}, kindPassThrough},
	{"id", "ind", "Indonesian", []string{"indonesian"}, kindPassThrough},
	{"ms", "msa", "Malay", []string{"malay"}, kindPassThrough},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages))
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Supported reports whether the language name or code is known.
func Supported(code string) bool {
	return lookup(code) != nil
}

// ToISO2 converts any recognized language code or name to ISO 639-1.
// Returns empty string for unrecognized input.
func ToISO2(code string) string {
	if e := lookup(code); e != nil {
		return e.code2
	}
	return ""
}

// DisplayName returns the human-readable name for a recognized code, which is
// also what the transcription prompt uses. Unknown input falls back to English.
func DisplayName(code string) string {
	if e := lookup(code); e != nil {
		return e.display
	}
	return "English"
}

// Names lists every supported display name in table order.
func Names() []string {
	out := make([]string, 0, len(languages))
	for _, e := range languages {
		out = append(out, e.display)
	}
	return out
}

// ForLanguage returns the Mapper for a language name or ISO code. Unknown
// languages use PassThrough.
func ForLanguage(code string) Mapper {
	e := lookup(code)
	if e == nil {
		return PassThrough{}
	}
	switch e.kind {
	case kindSinhala:
		return NewTransliteration(e.display, sinhalaTable)
	default:
		return PassThrough{}
	}
}
