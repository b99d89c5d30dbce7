package event

// Payload is the tagged variant carried by every envelope (spec.md §3).
// Exactly one field group is populated per Kind; Codec.CanonicalBytes
// encodes the whole struct so unused fields must serialize to their CBOR
// zero values consistently — see codec.go for the deterministic options
// that make that true across encodes.
type Payload struct {
	Kind Kind `cbor:"1,keyasint"`

	// Genesis
	NetworkID string `cbor:"2,keyasint"`

	// IdentityCreated
	DIDDocCID string `cbor:"3,keyasint"`

	// Opaque
	Bytes []byte `cbor:"4,keyasint"`
}

// Kind discriminates the Payload variants named in spec.md §3. New variants
// are added by extending this set and the corresponding constructor below —
// the payload itself stays extensible without breaking the CBOR field
// layout of existing events.
type Kind uint8

const (
	KindGenesis Kind = iota
	KindIdentityCreated
	KindOpaque
)

// GenesisPayload builds a Genesis{network_id} payload.
func GenesisPayload(networkID string) Payload {
	return Payload{Kind: KindGenesis, NetworkID: networkID}
}

// IdentityCreatedPayload builds an IdentityCreated{did_doc_cid} payload.
func IdentityCreatedPayload(didDocCID string) Payload {
	return Payload{Kind: KindIdentityCreated, DIDDocCID: didDocCID}
}

// OpaquePayload builds an Opaque(bytes) payload for application-defined
// event content not yet modeled as its own variant.
func OpaquePayload(b []byte) Payload {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Payload{Kind: KindOpaque, Bytes: cp}
}
