package payload

import (
	"encoding/json"
	"fmt"

	qrkit "github.com/ericlevine/qrkit"
)

// envelope is the tagged wire form of a record: {"kind": ..., "data": {...}}.
type envelope struct {
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Marshal encodes r in its tagged envelope.
func Marshal(r Record) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: r.Kind(), Data: data})
}

// Unmarshal decodes a tagged envelope. An unknown kind fails with
// qrkit.ErrUnsupportedType.
func Unmarshal(b []byte) (Record, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode record envelope: %w", err)
	}
	return Decode(env.Kind, env.Data)
}

// Decode decodes the JSON body of a record of the given kind. An empty body
// yields the zero record of that kind.
func Decode(kind Kind, data []byte) (Record, error) {
	var r Record
	var err error
	switch kind {
	case KindText:
		var v Text
		err = decodeBody(data, &v)
		r = v
	case KindContact:
		v := Contact{Mode: ContactTelephone}
		err = decodeBody(data, &v)
		r = v
	case KindLocation:
		var v Location
		err = decodeBody(data, &v)
		r = v
	case KindWifi:
		v := Wifi{Encryption: EncryptionWPA2}
		err = decodeBody(data, &v)
		r = v
	case KindBusinessCard:
		var v BusinessCard
		err = decodeBody(data, &v)
		r = v
	default:
		return nil, fmt.Errorf("record kind %q: %w", kind, qrkit.ErrUnsupportedType)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s record: %w", kind, err)
	}
	return r, nil
}

func decodeBody(data []byte, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, v)
}
