package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osgood/armorytrack/internal/decode"
)

func testMaterializer() *Materializer {
	return NewMaterializer(decode.NewRegistry("en_US"))
}

func sampleProfileDoc() map[string]any {
	return map[string]any{
		"name":  "Littlegizmo",
		"id":    float64(123456789),
		"level": float64(80),
		"gender": map[string]any{
			"type": "FEMALE",
			"name": map[string]any{"en_US": "Female"},
		},
		"faction": map[string]any{
			"type": "HORDE",
			"name": map[string]any{"en_US": "Horde"},
		},
		"character_class": map[string]any{
			"key":  map[string]any{"href": "https://us.api.blizzard.com/data/wow/playable-class/4"},
			"name": map[string]any{"en_US": "Rogue"},
			"id":   float64(4),
		},
		"average_item_level":  float64(610),
		"equipped_item_level": float64(605),
		// Composite fields without decoders, expected to be dropped
		"achievements": map[string]any{"href": "https://..."},
		"titles":       []any{map[string]any{"id": float64(1)}},
	}
}

func TestMaterializeDecodesRegisteredFields(t *testing.T) {
	p, err := testMaterializer().Materialize(context.Background(), sampleProfileDoc())
	require.NoError(t, err)

	gender, ok := p.CanonicalField("gender")
	require.True(t, ok)
	assert.Equal(t, "Female", gender)

	faction, ok := p.CanonicalField("faction")
	require.True(t, ok)
	assert.Equal(t, "Horde", faction)

	class, ok := p.Field("character_class")
	require.True(t, ok)
	named, ok := class.(decode.NamedValue)
	require.True(t, ok)
	assert.Equal(t, "Rogue", named.Name)
	assert.Equal(t, 4, named.ID)
}

func TestMaterializeScalarPassthrough(t *testing.T) {
	p, err := testMaterializer().Materialize(context.Background(), sampleProfileDoc())
	require.NoError(t, err)

	name, ok := p.Name()
	require.True(t, ok)
	assert.Equal(t, "Littlegizmo", name)

	level, ok := p.Level()
	require.True(t, ok)
	assert.Equal(t, 80, level)

	assert.Equal(t, float64(610), p.Scalars["average_item_level"])
}

func TestMaterializeDropsUnknownComposites(t *testing.T) {
	p, err := testMaterializer().Materialize(context.Background(), sampleProfileDoc())
	require.NoError(t, err)

	_, inFields := p.Fields["achievements"]
	_, inScalars := p.Scalars["achievements"]
	assert.False(t, inFields, "unknown object field must not materialize")
	assert.False(t, inScalars)

	_, inFields = p.Fields["titles"]
	_, inScalars = p.Scalars["titles"]
	assert.False(t, inFields, "unknown array field must not materialize")
	assert.False(t, inScalars)

	// The raw payload still carries the dropped fields
	assert.Contains(t, p.Raw, "achievements")
}

func TestMaterializeRegisteredDecoderFailurePropagates(t *testing.T) {
	doc := map[string]any{
		"gender": map[string]any{
			"type": "FEMALE",
			// name has an undecodable shape
			"name": float64(7),
		},
	}

	_, err := testMaterializer().Materialize(context.Background(), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gender")
}

func TestMaterializeEmptyDocument(t *testing.T) {
	p, err := testMaterializer().Materialize(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Empty(t, p.Fields)
	assert.Empty(t, p.Scalars)

	_, ok := p.Name()
	assert.False(t, ok)
	_, ok = p.Level()
	assert.False(t, ok)
}
