package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio_MissingMarshalsAsNull(t *testing.T) {
	row := BrandSentimentShare{Brand: "bajaj", SPV: MissingRatio()}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"brand":"bajaj","pos":0,"neg":0,"neu":0,"total":0,"spv":null}`, string(data))
}

func TestRatio_ZeroIsNotMissing(t *testing.T) {
	data, err := json.Marshal(SomeRatio(0))
	require.NoError(t, err)
	assert.Equal(t, "0", string(data))

	var r Ratio
	require.NoError(t, json.Unmarshal(data, &r))
	assert.True(t, r.Valid)

	require.NoError(t, json.Unmarshal([]byte("null"), &r))
	assert.False(t, r.Valid)
}

func TestRatio_Format(t *testing.T) {
	assert.Equal(t, "", MissingRatio().Format(4))
	assert.Equal(t, "0.7500", SomeRatio(0.75).Format(4))
}
