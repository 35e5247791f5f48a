package libvb

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// MergeTopLevel shallow-merges the patch object into the base object.
// Only top-level keys are overridden; nested values (e.g. items) are replaced wholesale.
// An empty base is treated as an empty object.
func MergeTopLevel(base, patch []byte) ([]byte, error) {
	if len(base) == 0 {
		base = []byte("{}")
	}

	var bp, pp fastjson.Parser

	b, err := bp.ParseBytes(base)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse base document")
	}
	if b.Type() != fastjson.TypeObject {
		return nil, errors.New("base document is not an object")
	}

	p, err := pp.ParseBytes(patch)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse patch")
	}
	po, err := p.Object()
	if err != nil {
		return nil, errors.Wrap(err, "patch is not an object")
	}

	po.Visit(func(key []byte, v *fastjson.Value) {
		b.Set(string(key), v)
	})

	return b.MarshalTo(nil), nil
}

// Patch serializes the document as a full top-level patch and stamps LastUpdated.
func Patch(doc *Document) ([]byte, error) {
	d := doc.Clone()
	d.Normalize()
	d.Touch()

	payload, err := json.Marshal(d)
	return payload, errors.Wrap(err, "could not serialize document")
}

// Decode parses a stored document.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "could not parse document")
	}
	return &doc, nil
}
