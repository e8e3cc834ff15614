package patchbay

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

// Loader produces validated Settings records from configuration documents.
// A fresh Loader (NewLoader) generates its own default CID and expects JSON;
// both can be adjusted with the With methods before loading.
//
// Loads are independent: every call decodes its own document and builds its
// own record, so one Loader can serve sequential reloads. A failed load
// returns no record at all; the caller keeps whatever record it already had.
type Loader struct {
	defaultCID uuid.UUID
	format     Format
	formatSet  bool
}

// NewLoader creates a Loader with a freshly generated default CID.
func NewLoader() *Loader {
	return &Loader{defaultCID: uuid.New()}
}

// WithDefaultCID sets the identity used when the document does not supply
// one. Service harnesses pass a machine-stable UUID here so the broker keeps
// its identity across restarts.
func (l *Loader) WithDefaultCID(cid uuid.UUID) *Loader {
	l.defaultCID = cid
	return l
}

// WithFormat fixes the document encoding. Without it, LoadFile infers the
// encoding from the file extension and the other entry points assume JSON.
func (l *Loader) WithFormat(f Format) *Loader {
	l.format = f
	l.formatSet = true
	return l
}

// DefaultCID returns the identity the loader falls back on.
func (l *Loader) DefaultCID() uuid.UUID {
	return l.defaultCID
}

// LoadFile reads and validates the named configuration file.
//
// Failures fall into three classes, distinguishable with errors.As: a
// wrapped *fs.PathError when the file cannot be read, *DecodeError when it
// cannot be parsed, and *FieldError when a recognized setting is invalid.
func (l *Loader) LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("patchbay: read config file: %w", err)
	}
	format := l.format
	if !l.formatSet {
		format = formatForPath(path)
	}
	return l.load(data, format)
}

// Load decodes and validates a document from an already-open stream.
func (l *Loader) Load(r io.Reader) (*Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("patchbay: read config stream: %w", err)
	}
	return l.load(data, l.format)
}

// LoadBytes decodes and validates a raw document.
func (l *Loader) LoadBytes(data []byte) (*Settings, error) {
	return l.load(data, l.format)
}

// Defaults returns the record every field of which took its default,
// equivalent to loading an empty document.
func (l *Loader) Defaults() *Settings {
	ld := newLoad(l.defaultCID)
	for _, entry := range settingsSchema {
		entry.def(ld)
		ld.settings.origins[entry.path] = OriginDefault
	}
	return ld.settings
}

func (l *Loader) load(data []byte, format Format) (*Settings, error) {
	doc, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}
	return l.apply(doc)
}

// apply drives the schema table over a decoded document, top to bottom,
// failing fast on the first invalid setting.
func (l *Loader) apply(doc document) (*Settings, error) {
	ld := newLoad(l.defaultCID)
	for _, entry := range settingsSchema {
		val, present := doc.lookup(entry.path)

		// Absent and explicit null both mean "use the default". Null is
		// decided here, before the shape check, so it is never a type error.
		if !present || kindOf(val) == kindNull {
			entry.def(ld)
			ld.settings.origins[entry.path] = OriginDefault
			continue
		}

		if k := kindOf(val); k != entry.kind {
			return nil, &FieldError{
				Path:    entry.path,
				Code:    ErrCodeType,
				Message: fmt.Sprintf("expected %s, got %s", kindName(entry.kind), kindName(k)),
			}
		}

		if err := entry.store(val, ld); err != nil {
			return nil, &FieldError{
				Path:    entry.path,
				Code:    ErrCodeValue,
				Message: err.Error(),
			}
		}
		ld.settings.origins[entry.path] = OriginConfig
	}
	return ld.settings, nil
}
