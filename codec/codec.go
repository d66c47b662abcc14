// Package codec encodes quotes for the message-bus egress paths:
// a JSON codec for debuggability and a compact protobuf wire-format
// codec for volume.
package codec

import (
	"fmt"

	"l1feed/domain/book"
)

type Codec interface {
	Marshal(book.Quote) ([]byte, error)
	Unmarshal([]byte) (book.Quote, error)
}

// ForName returns the codec selected by configuration.
func ForName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON{}, nil
	case "proto":
		return Proto{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}
