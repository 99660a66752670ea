package types

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestScript_Serialize(t *testing.T) {
	s := Script{Type: ScriptTypeP2PK, Data: []byte{0xaa, 0xbb}}
	got := s.Serialize()
	want := []byte{0x01, 0xaa, 0xbb}
	if !bytes.Equal(got, want) {
		t.Errorf("Serialize() = %x, want %x", got, want)
	}
}

func TestScript_Serialize_EmptyData(t *testing.T) {
	s := Script{Type: ScriptTypeContract}
	got := s.Serialize()
	if len(got) != 1 || got[0] != byte(ScriptTypeContract) {
		t.Errorf("Serialize() = %x, want single type byte", got)
	}
}

func TestScript_JSONRoundTrip(t *testing.T) {
	s := Script{Type: ScriptTypeContract, Data: []byte("contract blob")}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Script
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Type != s.Type || !bytes.Equal(back.Data, s.Data) {
		t.Errorf("round trip mismatch: got %+v, want %+v", back, s)
	}
}

func TestScriptType_String(t *testing.T) {
	if ScriptTypeP2PK.String() != "P2PK" {
		t.Errorf("P2PK name = %s", ScriptTypeP2PK.String())
	}
	if ScriptTypeContract.String() != "Contract" {
		t.Errorf("Contract name = %s", ScriptTypeContract.String())
	}
	if ScriptType(0xff).String() != "Unknown" {
		t.Errorf("unknown type should stringify as Unknown")
	}
}
