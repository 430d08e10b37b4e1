package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDEquality(t *testing.T) {
	tests := []struct {
		name   string
		a, b   ID
		loose  bool
		strict bool
	}{
		{"same number", NewID(1), NewID(1), true, true},
		{"number vs numeric string", NewID(1), ParseID("1"), true, false},
		{"float spelling", NumberID(1.0), ParseID("1.00"), true, false},
		{"negative zero", NumberID(math.Copysign(0, -1)), NewID(0), true, true},
		{"different numbers", NewID(1), NewID(2), false, false},
		{"opaque strings", ParseID("abc"), ParseID("abc"), true, false},
		{"NaN is not itself", NaNID(), NaNID(), false, false},
		{"NaN vs number", NaNID(), NewID(0), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.loose, tt.a.Equal(tt.b))
			assert.Equal(t, tt.loose, tt.b.Equal(tt.a))
			assert.Equal(t, tt.strict, tt.a.StrictEqual(tt.b))
		})
	}
}

func TestIDJSON(t *testing.T) {
	var ids []ID
	require.NoError(t, json.Unmarshal([]byte(`[1, "2", " 3 ", "x", 4.5, null]`), &ids))
	require.Len(t, ids, 6)

	assert.True(t, ids[0].IsNumber())
	assert.Equal(t, "1", ids[0].String())
	assert.False(t, ids[1].IsNumber())
	assert.Equal(t, "3", ids[2].Key())
	assert.Equal(t, "x", ids[3].Key())
	assert.Equal(t, "4.5", ids[4].Key())
	assert.Equal(t, ID{}, ids[5])

	out, err := json.Marshal(ids[:5])
	require.NoError(t, err)
	assert.JSONEq(t, `[1, "2", "3", "x", 4.5]`, string(out))

	nan, err := json.Marshal(NaNID())
	require.NoError(t, err)
	assert.Equal(t, "null", string(nan))
}

func TestRestoreID(t *testing.T) {
	assert.True(t, RestoreID("12", true).StrictEqual(NewID(12)))
	assert.False(t, RestoreID("12", false).IsNumber())
	assert.True(t, RestoreID("oops", true).IsNaN())
	assert.True(t, NumberID(math.Inf(1)).IsNaN())
}
