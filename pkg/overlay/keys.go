package overlay

import (
	"errors"
	"fmt"
)

type keyType byte

const (
	wordKey keyType = iota + 1
	favoriteKey
	stateKey
)

func marshalKey(k string, t keyType) []byte {
	result := make([]byte, 0, len(k)+1)
	result = append(result, byte(t))
	return append(result, []byte(k)...)
}

func unmarshalKey(data []byte, expected keyType) (string, error) {
	if len(data) < 1 {
		return "", errors.New("key length must be at least 1")
	}
	if data[0] != byte(expected) {
		return "", fmt.Errorf("key type %d doesn't equal to expected type %d", data[0], expected)
	}
	return string(data[1:]), nil
}

func prefix(t keyType) []byte {
	return []byte{byte(t)}
}
