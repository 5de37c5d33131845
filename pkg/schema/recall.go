package schema

import "github.com/hamba/avro/v2"

const RecallRuleSchemaTextV1 = `{
	"type": "record",
	"namespace": "catalog",
	"name": "recall_rule",
	"fields": [
		{"name": "sku", "type": "string"},
		{"name": "recalled", "type": "boolean"},
		{"name": "reason", "type": "string"}
	]
}`

// RecallRuleV1 keys on SKU; the compacted rule table keeps the latest
// value per key.
type RecallRuleV1 struct {
	SKU      string `avro:"sku"`
	Recalled bool   `avro:"recalled"`
	Reason   string `avro:"reason"`
}

func RecallRuleV1Avro() avro.Schema {
	return avro.MustParse(RecallRuleSchemaTextV1)
}
