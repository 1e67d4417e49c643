package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
)

// Payload is an encoded submission body ready for the backend.
type Payload struct {
	ContentType string
	Body        []byte
}

// EncodePayload serializes form state for submission. Forms without file
// fields go as JSON with numeric fields as numbers; as soon as any file-kind
// field holds a file the whole form is encoded multipart instead, with the
// file's bytes as a form file and every other field as a form value
// (multi-selects as repeated values).
func EncodePayload(f *FormState) (Payload, error) {
	if !f.HasFile() {
		body, err := json.Marshal(FormToWire(f))
		if err != nil {
			return Payload{}, fmt.Errorf("encode form: %w", err)
		}
		return Payload{ContentType: "application/json", Body: body}, nil
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range f.schema.Names() {
		spec, _ := f.schema.Lookup(name)
		value := f.Get(name)
		if value == nil {
			continue
		}
		switch spec.Kind {
		case KindFile:
			ref := f.File(name)
			if ref.Empty() {
				continue
			}
			part, err := w.CreateFormFile(name, ref.Name)
			if err != nil {
				return Payload{}, fmt.Errorf("encode file field %s: %w", name, err)
			}
			if _, err := part.Write(ref.Data); err != nil {
				return Payload{}, fmt.Errorf("encode file field %s: %w", name, err)
			}
		case KindIDList:
			for _, id := range f.IDs(name) {
				if err := w.WriteField(name, strconv.FormatInt(id, 10)); err != nil {
					return Payload{}, fmt.Errorf("encode field %s: %w", name, err)
				}
			}
		case KindStringList:
			for _, s := range f.Strings(name) {
				if err := w.WriteField(name, s); err != nil {
					return Payload{}, fmt.Errorf("encode field %s: %w", name, err)
				}
			}
		case KindNumeric:
			if n, ok := f.Number(name); ok {
				if err := w.WriteField(name, strconv.FormatFloat(n, 'f', -1, 64)); err != nil {
					return Payload{}, fmt.Errorf("encode field %s: %w", name, err)
				}
			}
		case KindInterest:
			// Merged into target_type already.
		default:
			if s, ok := value.(string); ok && s != "" {
				if err := w.WriteField(name, s); err != nil {
					return Payload{}, fmt.Errorf("encode field %s: %w", name, err)
				}
			}
		}
	}
	if err := w.Close(); err != nil {
		return Payload{}, fmt.Errorf("finalize multipart form: %w", err)
	}
	return Payload{ContentType: w.FormDataContentType(), Body: buf.Bytes()}, nil
}
