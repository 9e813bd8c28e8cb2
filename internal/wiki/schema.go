package wiki

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Response shapes of the two content API queries we issue. Only the fields we
// read are constrained; MediaWiki adds plenty of others.
const (
	pageSchemaURL = "https://redactle.dev/schema/query-extracts.json"
	pageSchema    = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"error": {
			"type": "object",
			"properties": {
				"code": {"type": "string"},
				"info": {"type": "string"}
			}
		},
		"query": {
			"type": "object",
			"properties": {
				"pages": {
					"type": "object",
					"additionalProperties": {
						"type": "object",
						"required": ["title"],
						"properties": {
							"title": {"type": "string"},
							"extract": {"type": "string"}
						}
					}
				}
			}
		}
	}
}`

	randomSchemaURL = "https://redactle.dev/schema/query-random.json"
	randomSchema    = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"error": {"type": "object"},
		"query": {
			"type": "object",
			"properties": {
				"random": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["title"],
						"properties": {
							"title": {"type": "string"}
						}
					}
				}
			}
		}
	}
}`
)

// responseSchemas holds the compiled schemas for one Client.
type responseSchemas struct {
	page   *jsonschema.Schema
	random *jsonschema.Schema
}

func compileSchemas() (*responseSchemas, error) {
	compiler := jsonschema.NewCompiler()

	for url, src := range map[string]string{
		pageSchemaURL:   pageSchema,
		randomSchemaURL: randomSchema,
	} {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", url, err)
		}
		if err := compiler.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", url, err)
		}
	}

	page, err := compiler.Compile(pageSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile page schema: %w", err)
	}
	random, err := compiler.Compile(randomSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile random schema: %w", err)
	}

	return &responseSchemas{page: page, random: random}, nil
}

// validate checks body against schema before it is decoded into structs,
// so a malformed response is reported by what is wrong rather than by a
// half-filled struct.
func validate(schema *jsonschema.Schema, body []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("unexpected response shape: %w", err)
	}
	return nil
}
