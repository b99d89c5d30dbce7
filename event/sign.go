package event

import "github.com/exochain/core/crypto"

// New computes env's canonical id, signs it under the event domain with
// signer, and returns the fully formed Event ready for submission to the
// append pipeline.
func New(codec Codec, env Envelope, signer crypto.Signer) (Event, error) {
	id, err := ComputeID(codec, env)
	if err != nil {
		return Event{}, err
	}
	sig, err := crypto.SignEventID(signer, id)
	if err != nil {
		return Event{}, err
	}
	return Event{Envelope: env, ID: id, Signature: sig}, nil
}
