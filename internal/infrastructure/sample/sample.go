// Package sample bundles the static datasets used to seed the catalog and to
// stand in for missing report data.
package sample

import (
	"embed"
	"encoding/json"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/record"
)

//go:embed data/*.json
var files embed.FS

func read(name string) []byte {
	data, err := files.ReadFile("data/" + name)
	if err != nil {
		panic("sample: missing bundled dataset " + name)
	}
	return data
}

// Products is the seed catalog.
func Products() []catalog.Product {
	var out []catalog.Product
	if err := json.Unmarshal(read("productos.json"), &out); err != nil {
		panic("sample: productos.json: " + err.Error())
	}
	return out
}

func ProductRecords() []record.Record { return mustRecords("productos.json") }

func UserRecords() []record.Record { return mustRecords("usuarios.json") }

func OrderRecords() []record.Record { return mustRecords("ordenes.json") }

// ContactRecords are example contact messages shown next to the stored ones.
func ContactRecords() []record.Record { return mustRecords("contactos.json") }

// Users returns the raw users dataset, used to seed the user list.
func Users() []byte { return read("usuarios.json") }

func mustRecords(name string) []record.Record {
	out, err := record.Decode(read(name))
	if err != nil {
		panic("sample: " + name + ": " + err.Error())
	}
	return out
}
