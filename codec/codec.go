// Package codec centralizes element encoding for snapshots.
//
// Snapshot files are self-describing: they store the codec name in
// their header, and the codec is selected by name when the file is read
// back. Changing codecs is therefore a breaking-change boundary for
// persisted bytes.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured. Existing snapshot
// files are unaffected: they record their codec name and are opened by
// selecting it via ByName.
var Default Codec = JSON{}
