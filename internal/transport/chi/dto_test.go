package chi

import (
	"encoding/json"
	"testing"
)

func TestSplitMetadata(t *testing.T) {
	tags, numerics, err := splitMetadata(json.RawMessage(
		`{"country":"UK","year":2021,"activationDate":1712345678}`,
	))
	if err != nil {
		t.Fatalf("splitMetadata() error = %v", err)
	}

	if tags["country"] != "UK" {
		t.Errorf("tags = %v", tags)
	}
	if numerics["year"] != 2021 || numerics["activationDate"] != 1712345678 {
		t.Errorf("numerics = %v", numerics)
	}
}

func TestSplitMetadata_Empty(t *testing.T) {
	tags, numerics, err := splitMetadata(nil)
	if err != nil {
		t.Fatalf("splitMetadata(nil) error = %v", err)
	}
	if tags != nil || numerics != nil {
		t.Errorf("got %v / %v, want nil maps", tags, numerics)
	}
}

func TestSplitMetadata_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not an object", `"just a string"`},
		{"boolean value", `{"active":true}`},
		{"nested object", `{"geo":{"lat":1}}`},
		{"array value", `{"tags":["a","b"]}`},
		{"malformed", `{"a":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := splitMetadata(json.RawMessage(tc.raw)); err == nil {
				t.Errorf("splitMetadata(%s) expected error, got nil", tc.raw)
			}
		})
	}
}

func TestDocumentFromRequest(t *testing.T) {
	doc, err := documentFromRequest(documentRequest{
		ID:       "d1",
		Content:  "hello",
		Metadata: json.RawMessage(`{"country":"UK","year":2021}`),
	})
	if err != nil {
		t.Fatalf("documentFromRequest() error = %v", err)
	}

	if doc.ID() != "d1" {
		t.Errorf("ID() = %q", doc.ID())
	}
	if doc.Content() != "hello" {
		t.Errorf("Content() = %q", doc.Content())
	}
	if doc.Tags()["country"] != "UK" {
		t.Errorf("Tags() = %v", doc.Tags())
	}
	if doc.Numerics()["year"] != 2021 {
		t.Errorf("Numerics() = %v", doc.Numerics())
	}
}

func TestDocumentFromRequest_GeneratesID(t *testing.T) {
	doc, err := documentFromRequest(documentRequest{Content: "hello"})
	if err != nil {
		t.Fatalf("documentFromRequest() error = %v", err)
	}
	if doc.ID() == "" {
		t.Error("expected a generated ID")
	}

	other, err := documentFromRequest(documentRequest{Content: "hello"})
	if err != nil {
		t.Fatalf("documentFromRequest() error = %v", err)
	}
	if doc.ID() == other.ID() {
		t.Error("generated IDs must be unique")
	}
}

func TestDocumentFromRequest_EmptyContent(t *testing.T) {
	if _, err := documentFromRequest(documentRequest{ID: "d1"}); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestMergeMetadata(t *testing.T) {
	m := mergeMetadata(
		map[string]string{"country": "UK"},
		map[string]float64{"year": 2021},
	)
	if m["country"] != "UK" || m["year"] != 2021.0 {
		t.Errorf("mergeMetadata() = %v", m)
	}

	if got := mergeMetadata(nil, nil); got != nil {
		t.Errorf("mergeMetadata(nil, nil) = %v, want nil", got)
	}
}
