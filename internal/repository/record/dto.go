package record

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/toolvec/toolvec/internal/domain/document"
	"github.com/toolvec/toolvec/internal/domain/field"
	"github.com/toolvec/toolvec/internal/domain/schema"
)

// Reserved hash field names. Metadata fields share the hash with these,
// which is why the schema rejects metadata named like them.
const (
	fieldContent = "__content"
	fieldVector  = "__vector"
)

// buildHashFields converts a domain Document into a flat map[string]string for HSET.
func buildHashFields(doc *document.Document) map[string]string {
	m := make(map[string]string, 2+len(doc.Tags())+len(doc.Numerics()))
	m[fieldContent] = doc.Content()
	m[fieldVector] = vectorToBytes(doc.Vector())
	for k, v := range doc.Tags() {
		m[k] = v
	}
	for k, v := range doc.Numerics() {
		m[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return m
}

// parseHashFields converts a flat hash map back into a domain Document.
// The schema decides whether a metadata value is numeric or textual, so a
// tag that happens to look like a number round-trips unchanged.
func parseHashFields(sch schema.Schema, id string, m map[string]string) document.Document {
	var content string
	var vector []float32
	tags := make(map[string]string)
	numerics := make(map[string]float64)

	for k, v := range m {
		switch k {
		case fieldContent:
			content = v
		case fieldVector:
			vector = bytesToVector(v)
		default:
			f, declared := sch.FieldByName(k)
			if declared && f.FieldType() == field.Numeric {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					numerics[k] = n
				}
				continue
			}
			tags[k] = v
		}
	}

	return document.Reconstruct(id, content, tags, numerics, vector)
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
