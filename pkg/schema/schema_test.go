package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/catalog-engine/pkg/schema"
)

func TestProductDraftV1Avro(t *testing.T) {
	s := schema.ProductDraftV1Avro()

	want := schema.ProductDraftV1{
		SourceURL:     "https://supplier.example/nvr-16",
		SuggestedType: "recorder",
		SKU:           "NVR-016",
		Name:          "16ch NVR",
		Brand:         "Acme",
		RawAttributes: map[string][]string{
			"Channels":    {"16"},
			"Compression": {"H.265", "H.264"},
		},
	}

	data, err := schema.AvroEncodeFn(s)(want)
	require.NoError(t, err)

	var got schema.ProductDraftV1
	require.NoError(t, schema.AvroDecodeFn(s)(data, &got))
	assert.Equal(t, want, got)
}

func TestRecallRuleV1Avro(t *testing.T) {
	s := schema.RecallRuleV1Avro()

	want := schema.RecallRuleV1{SKU: "CBL-090", Recalled: false, Reason: ""}

	data, err := schema.AvroEncodeFn(s)(want)
	require.NoError(t, err)

	var got schema.RecallRuleV1
	require.NoError(t, schema.AvroDecodeFn(s)(data, &got))
	assert.Equal(t, want, got)
}
