package spec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/spec"
)

func TestRegistrySchemaFor(t *testing.T) {
	reg := spec.New()

	t.Run("EveryTagHasSchema", func(t *testing.T) {
		for _, tag := range domain.TypeTags() {
			def, err := reg.SchemaFor(tag)
			require.NoError(t, err)
			assert.Equal(t, tag, def.TypeTag)
			assert.NotEmpty(t, def.Fields)
		}
	})

	t.Run("UnknownTag", func(t *testing.T) {
		_, err := reg.SchemaFor("toaster")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownTypeTag)
	})
}

func TestRegistryValidate(t *testing.T) {
	reg := spec.New()

	validCamera := func() domain.Attrs {
		return domain.Attrs{
			"resolution": "4MP",
			"body_type":  "Dome",
			"ir_range_m": float64(20),
		}
	}

	t.Run("ValidPayload", func(t *testing.T) {
		err := reg.Validate(domain.TypeCCTVCamera, validCamera())
		require.NoError(t, err)
	})

	t.Run("MissingRequired", func(t *testing.T) {
		err := reg.Validate(domain.TypeCCTVCamera, domain.Attrs{})
		require.Error(t, err)

		ve, ok := domain.AsValidationErrors(err)
		require.True(t, ok)
		assert.True(t, ve.Has("resolution"))
		assert.True(t, ve.Has("body_type"))
		assert.True(t, ve.Has("ir_range_m"))
	})

	t.Run("CollectsEveryFailure", func(t *testing.T) {
		attrs := domain.Attrs{
			"resolution": "7MP",
			"ir_range_m": float64(12.5),
			"dome_color": "white",
		}
		err := reg.Validate(domain.TypeCCTVCamera, attrs)
		require.Error(t, err)

		ve, ok := domain.AsValidationErrors(err)
		require.True(t, ok)
		assert.True(t, ve.Has("resolution"), "bad enum value")
		assert.True(t, ve.Has("body_type"), "missing required")
		assert.True(t, ve.Has("ir_range_m"), "fractional int")
		assert.True(t, ve.Has("dome_color"), "undeclared field")
		assert.Len(t, ve, 4)
	})

	t.Run("BlankRequiredCountsAsMissing", func(t *testing.T) {
		attrs := validCamera()
		attrs["resolution"] = "   "
		err := reg.Validate(domain.TypeCCTVCamera, attrs)
		require.Error(t, err)

		ve, ok := domain.AsValidationErrors(err)
		require.True(t, ok)
		assert.True(t, ve.Has("resolution"))
	})

	t.Run("FalseBoolIsRealValue", func(t *testing.T) {
		attrs := domain.Attrs{
			"resolution":    "2MP",
			"wireless_band": "2.4GHz",
			"two_way_audio": false,
		}
		err := reg.Validate(domain.TypeWiFiCamera, attrs)
		require.NoError(t, err)
	})

	t.Run("NonPositiveNumber", func(t *testing.T) {
		attrs := domain.Attrs{
			"length_m":   float64(0),
			"conductor":  "Copper",
			"cable_kind": "Cat6",
		}
		err := reg.Validate(domain.TypeCable, attrs)
		require.Error(t, err)

		ve, ok := domain.AsValidationErrors(err)
		require.True(t, ok)
		assert.True(t, ve.Has("length_m"))
	})

	t.Run("UnknownTag", func(t *testing.T) {
		err := reg.Validate("toaster", domain.Attrs{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownTypeTag)

		_, ok := domain.AsValidationErrors(err)
		assert.False(t, ok)
	})
}

func TestRegistryDefaults(t *testing.T) {
	reg := spec.New()

	t.Run("DeclaredDefaults", func(t *testing.T) {
		attrs, err := reg.Defaults(domain.TypeWiFiCamera)
		require.NoError(t, err)
		assert.Equal(t, "SD Card", attrs["storage_medium"])
		assert.Equal(t, false, attrs["two_way_audio"])
		assert.NotContains(t, attrs, "resolution")
	})

	t.Run("FreshMapEachCall", func(t *testing.T) {
		first, err := reg.Defaults(domain.TypeRecorder)
		require.NoError(t, err)
		first["compression"] = "mutated"

		second, err := reg.Defaults(domain.TypeRecorder)
		require.NoError(t, err)
		assert.Equal(t, "H.265", second["compression"])
	})

	t.Run("UnknownTag", func(t *testing.T) {
		_, err := reg.Defaults("toaster")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownTypeTag)
	})
}

func TestRegistryLint(t *testing.T) {
	reg := spec.New()

	facets := []domain.FacetDescriptor{
		{Key: "price", Kind: domain.FacetRange},
		{Key: "resolution", Kind: domain.FacetMultiselect},
		{Key: "megapixels", Kind: domain.FacetMultiselect},
	}
	unknown := reg.Lint(facets)
	assert.Equal(t, []string{"megapixels"}, unknown)
}
