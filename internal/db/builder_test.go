package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_VectorHNSW(t *testing.T) {
	idx, err := NewIndex("articles:vec:idx").
		Prefix("articles:vec:").
		Text("title").
		VectorHNSW("__vector", "vector", 1536, DistanceCosine, 16, 200).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if idx.Name != "articles:vec:idx" {
		t.Errorf("name = %q, want articles:vec:idx", idx.Name)
	}
	if len(idx.Fields) != 2 {
		t.Fatalf("fields count = %d, want 2", len(idx.Fields))
	}
	f := idx.Fields[1]
	if f.Type != IndexFieldVector {
		t.Errorf("type = %v, want vector", f.Type)
	}
	if f.Alias != "vector" {
		t.Errorf("alias = %q, want vector", f.Alias)
	}
	if f.VectorDim != 1536 {
		t.Errorf("dim = %d, want 1536", f.VectorDim)
	}
	if f.VectorDistance != DistanceCosine {
		t.Errorf("distance = %q, want COSINE", f.VectorDistance)
	}
	if f.VectorM != 16 || f.VectorEFConstruct != 200 {
		t.Errorf("M/EF = %d/%d, want 16/200", f.VectorM, f.VectorEFConstruct)
	}
}

func TestIndexBuilder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		builder *IndexBuilder
		wantErr string
	}{
		{
			name:    "empty name",
			builder: NewIndex("").Text("a"),
			wantErr: "index name is required",
		},
		{
			name:    "invalid name",
			builder: NewIndex("bad name").Text("a"),
			wantErr: "invalid characters",
		},
		{
			name:    "no fields",
			builder: NewIndex("idx"),
			wantErr: "at least one field",
		},
		{
			name:    "duplicate alias",
			builder: NewIndex("idx").Text("vector").VectorHNSW("__vector", "vector", 4, DistanceCosine, 0, 0),
			wantErr: "duplicate field name: vector",
		},
		{
			name:    "zero dim",
			builder: NewIndex("idx").VectorHNSW("__vector", "vector", 0, DistanceCosine, 0, 0),
			wantErr: "positive DIM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx, err := NewIndex("articles:vec:idx").
		Prefix("articles:vec:").
		VectorHNSW("__vector", "vector", 8, DistanceCosine, 0, 0).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "FT.CREATE articles:vec:idx ON HASH PREFIX articles:vec: SCHEMA __vector AS vector VECTOR HNSW"
	if got := idx.String(); got != want {
		t.Errorf("String() = %q\nwant %q", got, want)
	}
}

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"articles:vec:idx", true},
		{"a_b-c", true},
		{"", false},
		{"has space", false},
		{"semi;colon", false},
	}
	for _, tt := range tests {
		if got := IsValidIdentifier(tt.in); got != tt.want {
			t.Errorf("IsValidIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
