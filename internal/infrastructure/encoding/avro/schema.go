package avro

// StorageEventSchema describes one write to a storage area.
// value is null for removals; at is unix milliseconds.
const StorageEventSchema = `{
	"type": "record",
	"name": "StorageEvent",
	"namespace": "storefront.storage",
	"fields": [
		{"name": "namespace", "type": "string"},
		{"name": "key", "type": "string"},
		{"name": "value", "type": ["null", "bytes"], "default": null},
		{"name": "removed", "type": "boolean", "default": false},
		{"name": "context", "type": "string"},
		{"name": "at", "type": "long"}
	]
}`
