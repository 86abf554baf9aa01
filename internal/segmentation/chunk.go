package segmentation

import "fmt"

// Label classifies who is speaking in a chunk. The segmentation engine only
// ever produces Unlabeled chunks; real labels are assigned downstream by a
// classifier.
type Label int

const (
	// Unlabeled marks a chunk no classifier has seen yet.
	Unlabeled Label = iota
	// Speaker marks the primary speaker's voice.
	Speaker
	// Translator marks the interpreter's voice.
	Translator
)

// MarshalText renders the label for the cache file format. Unlabeled keeps
// the historical "?" spelling.
func (l Label) MarshalText() ([]byte, error) {
	switch l {
	case Unlabeled:
		return []byte("?"), nil
	case Speaker:
		return []byte("speaker"), nil
	case Translator:
		return []byte("translator"), nil
	}
	return nil, fmt.Errorf("unknown label %d", int(l))
}

// UnmarshalText parses a persisted label. Unknown values are a
// data-integrity error, never silently mapped to Unlabeled.
func (l *Label) UnmarshalText(text []byte) error {
	switch string(text) {
	case "?":
		*l = Unlabeled
	case "speaker":
		*l = Speaker
	case "translator":
		*l = Translator
	default:
		return fmt.Errorf("unknown label %q", string(text))
	}
	return nil
}

// Chunk is one segmentation record: a leading (possibly empty) silence
// followed by an audible span. All times are milliseconds from the start of
// the buffer the chunk was produced from, with
// SilenceStart <= AudibleStart <= AudibleEnd.
type Chunk struct {
	SilenceStart int   `json:"silence_start"`
	AudibleStart int   `json:"audible_start"`
	AudibleEnd   int   `json:"audible_end"`
	Level        int   `json:"level"`
	Label        Label `json:"label"`
}

// AudibleLen returns the length of the audible span in milliseconds.
func (c Chunk) AudibleLen() int {
	return c.AudibleEnd - c.AudibleStart
}
