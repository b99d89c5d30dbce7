package event

import (
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Codec produces the canonical binary encoding named in spec.md §4.3:
// deterministic CBOR, map keys sorted, definite-length encoding, smallest
// integer encoding, no indefinite-length items. It is built once and reused
// — cbor.EncMode is safe for concurrent use — following the same
// build-once-reuse pattern as the teacher's massifs.NewRootSignerCodec.
type Codec struct {
	encMode cbor.EncMode
	decMode cbor.DecMode
}

var (
	defaultCodec     Codec
	defaultCodecOnce sync.Once
	defaultCodecErr  error
)

// NewCodec builds a Codec using cbor.CanonicalEncOptions, the library's
// deterministic-encoding preset (sorted keys, definite length, shortest
// form) — the Go analogue of the teacher's NewDeterministicEncOpts.
func NewCodec() (Codec, error) {
	encOpts := cbor.CanonicalEncOptions()
	encMode, err := encOpts.EncMode()
	if err != nil {
		return Codec{}, err
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
		TagsMd:      cbor.TagsForbidden,
	}
	decMode, err := decOpts.DecMode()
	if err != nil {
		return Codec{}, err
	}

	return Codec{encMode: encMode, decMode: decMode}, nil
}

// DefaultCodec returns a process-wide shared Codec, built once.
func DefaultCodec() (Codec, error) {
	defaultCodecOnce.Do(func() {
		defaultCodec, defaultCodecErr = NewCodec()
	})
	return defaultCodec, defaultCodecErr
}

// CanonicalBytes encodes env using the deterministic CBOR rules. All
// implementations MUST produce byte-identical output for semantically equal
// envelopes (spec.md §4.3).
func (c Codec) CanonicalBytes(env Envelope) ([]byte, error) {
	return c.encMode.Marshal(env)
}

// Unmarshal decodes a canonical envelope back into a struct, rejecting
// non-canonical encodings (duplicate keys, indefinite length, tags).
func (c Codec) Unmarshal(data []byte, env *Envelope) error {
	return c.decMode.Unmarshal(data, env)
}
