package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ysmood/gson"

	errs "fetchmoots/pkg/errors"
)

// instructionsPath is where the GraphQL user timeline keeps its instructions
var instructionsPath = []string{"data", "user", "result", "timeline", "timeline", "instructions"}

// Document is a decoded timeline payload. Decoded objects are Go maps, so
// the key order of every instruction is recorded separately at parse time.
type Document struct {
	gson.JSON

	instructionKeys [][]string
}

// Instruction is one element of the instructions list
type Instruction struct {
	gson.JSON

	// Keys holds the object's keys in document order, nil when unknown
	Keys []string
}

// Parse decodes a timeline document
func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeFilesystem, err, "cannot read timeline")
	}

	var raw interface{}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, malformed(err, "invalid JSON")
	}

	return &Document{
		JSON:            gson.New(raw),
		instructionKeys: instructionKeyOrder(data),
	}, nil
}

// Load opens and decodes the timeline document at path
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeFilesystem, err, "cannot open timeline file")
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Instructions returns data.user.result.timeline.timeline.instructions
func Instructions(doc *Document) ([]Instruction, error) {
	items, err := lookupArray(doc.JSON, instructionsPath...)
	if err != nil {
		return nil, malformed(err, "timeline instructions not found")
	}

	known := len(doc.instructionKeys) == len(items)
	instructions := make([]Instruction, len(items))
	for i, item := range items {
		instructions[i].JSON = item
		if known {
			instructions[i].Keys = doc.instructionKeys[i]
		}
	}
	return instructions, nil
}

// instructionKeyOrder re-reads the instructions list token by token and
// returns the keys of each element in document order. It returns nil when
// the list cannot be read, and nil keys for elements that are not objects.
func instructionKeyOrder(data []byte) [][]string {
	var payload struct {
		Data struct {
			User struct {
				Result struct {
					Timeline struct {
						Timeline struct {
							Instructions []json.RawMessage `json:"instructions"`
						} `json:"timeline"`
					} `json:"timeline"`
				} `json:"result"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&payload); err != nil {
		return nil
	}

	raw := payload.Data.User.Result.Timeline.Timeline.Instructions
	order := make([][]string, len(raw))
	for i, instruction := range raw {
		order[i] = objectKeys(instruction)
	}
	return order
}

// objectKeys lists the keys of a JSON object in the order they appear. A
// repeated key keeps its first position.
func objectKeys(raw json.RawMessage) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}

	var keys []string
	seen := make(map[string]bool)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil
		}

		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}
