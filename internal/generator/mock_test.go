package generator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, rules string) any {
	t.Helper()
	var tpl any
	require.NoError(t, json.Unmarshal([]byte(rules), &tpl))

	out, err := NewMockGenerator(Options{}).Generate(tpl)
	require.NoError(t, err)
	return out
}

func TestGenerateLiterals(t *testing.T) {
	out := generate(t, `{"name": "demo", "count": 3, "enabled": true, "nothing": null}`)

	obj, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "demo", obj["name"])
	assert.Equal(t, float64(3), obj["count"])
	assert.Equal(t, true, obj["enabled"])
	assert.Nil(t, obj["nothing"])
}

func TestGenerateNil(t *testing.T) {
	gen := NewMockGenerator(Options{})
	out, err := gen.Generate(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestGenerateArrayRepeat(t *testing.T) {
	out := generate(t, `{"list|3": [{"id": 1}]}`)

	obj := out.(map[string]any)
	list, ok := obj["list"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 3)
	for _, item := range list {
		assert.Equal(t, map[string]any{"id": float64(1)}, item)
	}
}

func TestGenerateArrayRangeRepeat(t *testing.T) {
	for i := 0; i < 20; i++ {
		out := generate(t, `{"list|2-5": ["x"]}`)
		list := out.(map[string]any)["list"].([]any)
		assert.GreaterOrEqual(t, len(list), 2)
		assert.LessOrEqual(t, len(list), 5)
	}
}

func TestGenerateStringRepeat(t *testing.T) {
	out := generate(t, `{"stars|4": "*"}`)
	assert.Equal(t, "****", out.(map[string]any)["stars"])
}

func TestGenerateIntRange(t *testing.T) {
	for i := 0; i < 20; i++ {
		out := generate(t, `{"age|18-60": 0}`)
		age, ok := out.(map[string]any)["age"].(int)
		require.True(t, ok)
		assert.GreaterOrEqual(t, age, 18)
		assert.LessOrEqual(t, age, 60)
	}
}

func TestGenerateFloatRule(t *testing.T) {
	out := generate(t, `{"price|10-20.2": 0}`)
	price, ok := out.(map[string]any)["price"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, price, 10.0)
	assert.Less(t, price, 21.0)
}

func TestGenerateRandomBool(t *testing.T) {
	out := generate(t, `{"flag|1": true}`)
	_, ok := out.(map[string]any)["flag"].(bool)
	assert.True(t, ok)
}

func TestGenerateObjectSubset(t *testing.T) {
	out := generate(t, `{"part|2": {"a": 1, "b": 2, "c": 3}}`)
	part, ok := out.(map[string]any)["part"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, part, 2)
}

func TestDirectiveWholeStringKeepsType(t *testing.T) {
	out := generate(t, `{"n": "@integer(1, 5)"}`)
	n, ok := out.(map[string]any)["n"].(int)
	require.True(t, ok, "whole-string directive must keep native type")
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 5)
}

func TestDirectiveEmbedded(t *testing.T) {
	out := generate(t, `{"greeting": "id=@integer(7, 7)!"}`)
	assert.Equal(t, "id=7!", out.(map[string]any)["greeting"])
}

func TestDirectiveUUID(t *testing.T) {
	out := generate(t, `{"id": "@uuid"}`)
	id, ok := out.(map[string]any)["id"].(string)
	require.True(t, ok)
	assert.Len(t, id, 36)
}

func TestDirectiveEmail(t *testing.T) {
	out := generate(t, `{"mail": "@email"}`)
	mail := out.(map[string]any)["mail"].(string)
	assert.Contains(t, mail, "@")
}

func TestUnknownDirectiveKeptVerbatim(t *testing.T) {
	out := generate(t, `{"v": "@notadirective"}`)
	assert.Equal(t, "@notadirective", out.(map[string]any)["v"])
}

func TestInvalidRuleSyntax(t *testing.T) {
	var tpl any
	require.NoError(t, json.Unmarshal([]byte(`{"x|bogus": 1}`), &tpl))

	_, err := NewMockGenerator(Options{}).Generate(tpl)
	assert.Error(t, err)
}

func TestMaxDepthGuard(t *testing.T) {
	// 构造超出深度上限的嵌套模板
	deep := any("leaf")
	for i := 0; i < 40; i++ {
		deep = map[string]any{"next": deep}
	}

	_, err := NewMockGenerator(Options{MaxDepth: 16}).Generate(deep)
	assert.ErrorIs(t, err, ErrTooDeep)
}

func TestMaxRepeatCap(t *testing.T) {
	out, err := NewMockGenerator(Options{MaxRepeat: 5}).Generate(map[string]any{
		"list|50": []any{"x"},
	})
	require.NoError(t, err)
	assert.Len(t, out.(map[string]any)["list"], 5)
}
