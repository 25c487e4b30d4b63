package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"bare word", "Farm", "Farm"},
		{"host quoted", `"Farm"`, "Farm"},
		{"padded", `  "Farm" `, "Farm"},
		{"single quotes kept", "'Farm'", "'Farm'"},
		{"quote inside word kept", `Fa"rm`, `Fa"rm`},
		{"just quotes", `""`, ""},
		{"doubled inner quotes", `"say ""hi"""`, `say "hi`},
		{"json object", `"{""qualifiedId"":""(O)24""}"`, `{"qualifiedId":"(O)24"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanArg(tt.in))
		})
	}
}

func TestQuoteHelpers(t *testing.T) {
	assert.Equal(t, "abc", TrimQuotes(`""abc"`))
	assert.Equal(t, `{"a":"b"}`, FixEscapeQuotes(`{""a"":""b""}`))
}

func TestIsNullJSON(t *testing.T) {
	for _, s := range []string{"", "null", " nil ", "[]", "{}"} {
		assert.True(t, IsNullJSON(s), "%q", s)
	}
	for _, s := range []string{`{"kind":"tilledSoil"}`, "0", `""`} {
		assert.False(t, IsNullJSON(s), "%q", s)
	}
}

func TestParseFlag(t *testing.T) {
	truthy := []string{"true", "TRUE", "1", "yes", " Yes "}
	falsy := []string{"false", "0", "", "No", "f"}

	for _, s := range truthy {
		got, err := ParseFlag(s)
		require.NoError(t, err, "%q", s)
		assert.True(t, got, "%q", s)
	}
	for _, s := range falsy {
		got, err := ParseFlag(s)
		require.NoError(t, err, "%q", s)
		assert.False(t, got, "%q", s)
	}

	_, err := ParseFlag("maybe")
	assert.Error(t, err)
}
