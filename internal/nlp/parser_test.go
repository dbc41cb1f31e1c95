package nlp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	cases := []struct {
		text string
		want Filters
	}{
		{"", Filters{}},
		{"anywhere is fine", Filters{}},
		{"Closest EV midsize between two empty spots", Filters{EV: true, Near: true, Buffered: true, Size: "midsize"}},
		{"I need an electric charger with CCS", Filters{EV: true, Connector: "ccs"}},
		{"handicap spot near the entrance", Filters{ADA: true, Near: true}},
		{"disabled parking for my truck", Filters{ADA: true, Size: "truck"}},
		{"J1772 or CCS", Filters{Connector: "j1772"}},
		{"dc charger please", Filters{Connector: "dc_fast"}},
		{"fast charging for a compact", Filters{Connector: "dc_fast", Size: "compact"}},
		{"buffered spot for a full size SUV", Filters{Buffered: true, Size: "full"}},
		// substring matching: "level" contains "ev"
		{"top level", Filters{EV: true}},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseRequest(tc.text))
		})
	}
}

func TestFiltersJSONOmitsUnset(t *testing.T) {
	b, err := json.Marshal(ParseRequest("nothing here"))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))

	b, err = json.Marshal(ParseRequest("ev near entrance"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ev": true, "near": true}`, string(b))
}

func TestMerge(t *testing.T) {
	base := Filters{EV: true, Size: "compact"}
	got := base.Merge(Filters{Buffered: true, Size: "suv"})
	assert.Equal(t, Filters{EV: true, Buffered: true, Size: "suv"}, got)
	assert.Equal(t, base, base.Merge(Filters{}))
}
