package types

import (
	"encoding/hex"
	"encoding/json"
)

// ScriptType identifies the kind of locking script.
type ScriptType uint8

const (
	// ScriptTypeP2PK locks a coin to a public key (data = 33-byte
	// compressed pubkey). Spending requires a Schnorr signature.
	ScriptTypeP2PK ScriptType = 0x01

	// ScriptTypeContract is an opaque contract program. The ledger does
	// not interpret the blob; the script is identified purely by its
	// hash and spends supply their conditions directly.
	ScriptTypeContract ScriptType = 0x02
)

// String returns a human-readable name for the script type.
func (st ScriptType) String() string {
	switch st {
	case ScriptTypeP2PK:
		return "P2PK"
	case ScriptTypeContract:
		return "Contract"
	default:
		return "Unknown"
	}
}

// Script defines the locking condition for a coin.
type Script struct {
	Type ScriptType `json:"type"`
	Data []byte     `json:"data"`
}

// Serialize returns the canonical byte form: type(1) | data.
// The script's puzzle hash is the hash of this serialization.
func (s Script) Serialize() []byte {
	out := make([]byte, 1+len(s.Data))
	out[0] = byte(s.Type)
	copy(out[1:], s.Data)
	return out
}

// scriptJSON is the JSON representation of a Script with hex-encoded data.
type scriptJSON struct {
	Type ScriptType `json:"type"`
	Data string     `json:"data"`
}

// MarshalJSON encodes the script with hex-encoded data.
func (s Script) MarshalJSON() ([]byte, error) {
	return json.Marshal(scriptJSON{
		Type: s.Type,
		Data: hex.EncodeToString(s.Data),
	})
}

// UnmarshalJSON decodes a script with hex-encoded data.
func (s *Script) UnmarshalJSON(data []byte) error {
	var j scriptJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	s.Type = j.Type
	if j.Data != "" {
		b, err := hex.DecodeString(j.Data)
		if err != nil {
			return err
		}
		s.Data = b
	}
	return nil
}
