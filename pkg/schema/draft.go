package schema

import "github.com/hamba/avro/v2"

const ProductDraftSchemaTextV1 = `{
	"type": "record",
	"namespace": "catalog",
	"name": "product_draft",
	"fields": [
		{"name": "source_url", "type": "string"},
		{"name": "suggested_type", "type": "string"},
		{"name": "sku", "type": "string"},
		{"name": "name", "type": "string"},
		{"name": "brand", "type": "string"},
		{"name": "category_id", "type": "string"},
		{"name": "selling_price", "type": "double"},
		{"name": "mrp", "type": "double"},
		{"name": "raw_attributes", "type": {
			"type": "map",
			"values": {"type": "array", "items": "string"}
		}}
	]
}`

// ProductDraftV1 is one extracted product as the external extraction
// collaborator emits it: untyped attribute values, keyed by whatever
// label the source page used.
type ProductDraftV1 struct {
	SourceURL     string              `avro:"source_url"`
	SuggestedType string              `avro:"suggested_type"`
	SKU           string              `avro:"sku"`
	Name          string              `avro:"name"`
	Brand         string              `avro:"brand"`
	CategoryID    string              `avro:"category_id"`
	SellingPrice  float64             `avro:"selling_price"`
	MRP           float64             `avro:"mrp"`
	RawAttributes map[string][]string `avro:"raw_attributes"`
}

func ProductDraftV1Avro() avro.Schema {
	return avro.MustParse(ProductDraftSchemaTextV1)
}
