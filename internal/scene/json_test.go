package scene

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVecMarshalJSON(t *testing.T) {
	for _, v := range []Vec4{
		{0, 1, -2.5, 1},
		{1e-7, 3e21, -1e-9, 123456789.125},
		{0.1, 1e20, 5e-324, math.MaxFloat64},
	} {
		want, err := json.Marshal([4]float64(v))
		require.NoError(t, err)
		got, err := json.Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	}

	got, err := json.Marshal(Vec4{math.NaN(), math.Inf(1), math.Inf(-1), 2})
	require.NoError(t, err)
	assert.Equal(t, "[null,null,null,2]", string(got))

	got, err = json.Marshal([]Vec2{{0.5, math.NaN()}})
	require.NoError(t, err)
	assert.Equal(t, "[[0.5,null]]", string(got))
}
