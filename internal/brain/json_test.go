package brain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a": 1}`, want: `{"a": 1}`},
		{name: "json fence", in: "```json\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "bare fence", in: "```\n[1, 2]\n```", want: "[1, 2]"},
		{name: "surrounding whitespace", in: "  ```json\n{}\n```  ", want: "{}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripFences(tc.in))
		})
	}
}

func TestDecodeResponseTagsParseError(t *testing.T) {
	var v map[string]int
	err := decodeResponse(TierFast, "nonsense", &v)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, TierFast, parseErr.Tier)
}

func TestErrorTypesUnwrap(t *testing.T) {
	cause := errors.New("boom")
	var err error = &TransportError{Tier: TierDeep, Err: cause}
	assert.True(t, errors.Is(err, cause))

	err = &ParseError{Tier: TierFast, Err: cause}
	assert.True(t, errors.Is(err, cause))
}
