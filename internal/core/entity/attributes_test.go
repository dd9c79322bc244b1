package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributesScan(t *testing.T) {
	var a Attributes
	require.NoError(t, a.Scan([]byte(`{"color":"black","weight":125,"fragile":true}`)))

	assert.Equal(t, "black", a.GetString("color"))
	assert.Equal(t, int64(125), a.GetInt("weight"))
	assert.True(t, a.GetBool("fragile"))
	assert.False(t, a.Has("missing"))
}

func TestAttributesScanNil(t *testing.T) {
	a := Attributes{"k": "v"}
	require.NoError(t, a.Scan(nil))
	assert.Nil(t, a)
}

func TestAttributesScanPreservesPrecision(t *testing.T) {
	var a Attributes
	require.NoError(t, a.Scan(`{"serial":9007199254740993}`))

	// Above 2^53 a float64 round trip would corrupt the value.
	assert.Equal(t, int64(9007199254740993), a.GetInt("serial"))
}

func TestAttributesValue(t *testing.T) {
	var a Attributes
	a.Set("color", "red")

	v, err := a.Value()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(v.([]byte), &decoded))
	assert.Equal(t, "red", decoded["color"])
}

func TestAttributesValueNil(t *testing.T) {
	var a Attributes
	v, err := a.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
