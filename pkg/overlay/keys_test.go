package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	testCases := map[string]struct {
		keyType  keyType
		keyRaw   string
		expected []byte
	}{
		"word key": {
			keyType:  wordKey,
			keyRaw:   "key",
			expected: []byte{byte(wordKey), 'k', 'e', 'y'},
		},
		"word empty": {
			keyType:  wordKey,
			keyRaw:   "",
			expected: []byte{byte(wordKey)},
		},
		"favorite key": {
			keyType:  favoriteKey,
			keyRaw:   "42",
			expected: []byte{byte(favoriteKey), '4', '2'},
		},
		"state key": {
			keyType:  stateKey,
			keyRaw:   "scroll",
			expected: []byte{byte(stateKey), 's', 'c', 'r', 'o', 'l', 'l'},
		},
	}
	for name := range testCases {
		tc := testCases[name]
		t.Run(name, func(t *testing.T) {
			binaryKey := marshalKey(tc.keyRaw, tc.keyType)
			assert.Equal(t, tc.expected, binaryKey)

			raw, err := unmarshalKey(binaryKey, tc.keyType)
			assert.NoError(t, err)
			assert.Equal(t, tc.keyRaw, raw)
		})
	}
}

func TestUnmarshalKeyErrors(t *testing.T) {
	_, err := unmarshalKey(nil, wordKey)
	assert.Error(t, err)
	_, err = unmarshalKey([]byte{byte(stateKey), 'a'}, wordKey)
	assert.Error(t, err)
}
