package apikey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cheapParams = Params{Memory: 64, Time: 1, Threads: 1, SaltLen: 8, KeyLen: 16}

func TestParse(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expectedID  string
		expectedTok string
		expectedErr error
	}{
		{
			name:        "valid_key",
			raw:         "ak_3f1c2a9e-8b7d-4c6e-9a1b-2d3e4f5a6b7c_abc-DEF_123",
			expectedID:  "3f1c2a9e-8b7d-4c6e-9a1b-2d3e4f5a6b7c",
			expectedTok: "abc-DEF_123",
		},
		{
			name:        "uppercase_uuid",
			raw:         "ak_3F1C2A9E-8B7D-4C6E-9A1B-2D3E4F5A6B7C_tok",
			expectedID:  "3F1C2A9E-8B7D-4C6E-9A1B-2D3E4F5A6B7C",
			expectedTok: "tok",
		},
		{name: "missing_prefix", raw: "3f1c2a9e-8b7d-4c6e-9a1b-2d3e4f5a6b7c_tok", expectedErr: ErrInvalidFormat},
		{name: "wrong_prefix_case", raw: "AK_3f1c2a9e-8b7d-4c6e-9a1b-2d3e4f5a6b7c_tok", expectedErr: ErrInvalidFormat},
		{name: "uuid_without_hyphens", raw: "ak_3f1c2a9e8b7d4c6e9a1b2d3e4f5a6b7c_tok", expectedErr: ErrInvalidFormat},
		{name: "empty_token", raw: "ak_3f1c2a9e-8b7d-4c6e-9a1b-2d3e4f5a6b7c_", expectedErr: ErrInvalidFormat},
		{name: "padded_token", raw: "ak_3f1c2a9e-8b7d-4c6e-9a1b-2d3e4f5a6b7c_abc=", expectedErr: ErrInvalidFormat},
		{name: "trailing_space", raw: "ak_3f1c2a9e-8b7d-4c6e-9a1b-2d3e4f5a6b7c_tok ", expectedErr: ErrInvalidFormat},
		{name: "empty", raw: "", expectedErr: ErrInvalidFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, tok, err := Parse(tc.raw)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
			assert.Equal(t, tc.expectedTok, tok)
		})
	}
}

func TestGenerate(t *testing.T) {
	full, keyID, token, err := Generate()
	require.NoError(t, err)

	assert.Equal(t, Prefix+keyID+"_"+token, full)
	assert.Len(t, token, 43)

	id, tok, err := Parse(full)
	require.NoError(t, err)
	assert.Equal(t, keyID, id)
	assert.Equal(t, token, tok)
}

func TestHashVerify_RoundTrip(t *testing.T) {
	full, _, token, err := Generate()
	require.NoError(t, err)

	encoded, err := Hash(full, cheapParams)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=64,t=1,p=1$"))

	ok, err := Verify(full, encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	// The token alone is not the credential.
	ok, err = Verify(token, encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_DefaultParamsEncoding(t *testing.T) {
	encoded, err := Hash("ak_x", DefaultParams)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=65536,t=3,p=1$"))
}

func TestVerify_MalformedHash(t *testing.T) {
	testCases := []string{
		"",
		"plain-text",
		"$argon2i$v=19$m=64,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=64,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=64,t=1,p=1$!!!$aGFzaA",
	}
	for _, encoded := range testCases {
		ok, err := Verify("ak_x", encoded)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrHashVerify, encoded)
	}
}
