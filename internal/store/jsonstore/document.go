package jsonstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/guregu/null/v5"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/kinly/internal/model"
)

// Version 1 is the original flat array of {"title","done"} entries, written
// before lists existed. Version 2 adds ids, timestamps and lists.
const currentVersion = 2

type document struct {
	Version int          `json:"version"`
	Lists   []model.List `json:"lists"`
	Items   []model.Item `json:"items"`
}

type legacyItem struct {
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

//go:embed schema.json
var schemaText string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("kinly.schema.json", schemaText)
	})
	return schema, schemaErr
}

// decode validates b and returns its records. legacy is true when b was a
// version 1 file.
func decode(b []byte) (doc document, legacy bool, err error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return document{Version: currentVersion}, false, nil
	}

	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return document{}, false, errors.Wrap(err, "json unmarshal")
	}
	sch, err := compiledSchema()
	if err != nil {
		return document{}, false, errors.Wrap(err, "compile schema")
	}
	if err := sch.Validate(raw); err != nil {
		return document{}, false, errors.Wrap(err, "validate")
	}

	if _, isArray := raw.([]interface{}); isArray {
		var old []legacyItem
		if err := json.Unmarshal(b, &old); err != nil {
			return document{}, false, errors.Wrap(err, "json unmarshal")
		}
		up, err := upgrade(old)
		if err != nil {
			return document{}, false, err
		}
		return up, true, nil
	}

	if err := json.Unmarshal(b, &doc); err != nil {
		return document{}, false, errors.Wrap(err, "json unmarshal")
	}
	if doc.Version > currentVersion {
		return document{}, false, errors.Newf("unsupported data file version %d", doc.Version)
	}
	return doc, false, nil
}

// upgrade keeps titles and completion. Version 1 had no timestamps, so
// CreatedAt stays absent and reads go through the defaulting accessors.
// Items with equal timestamps fall back to id order; version 7 ids increase
// monotonically, so the old array order is what listings show.
func upgrade(old []legacyItem) (document, error) {
	doc := document{Version: currentVersion, Lists: []model.List{}, Items: make([]model.Item, 0, len(old))}
	for _, o := range old {
		id, err := uuid.NewV7()
		if err != nil {
			return document{}, errors.Wrap(err, "new item id")
		}
		doc.Items = append(doc.Items, model.Item{
			ID:          id,
			Title:       null.StringFrom(o.Title),
			IsCompleted: null.BoolFrom(o.Done),
		})
	}
	return doc, nil
}
