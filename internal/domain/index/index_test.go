package index

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/esbridge/internal/domain/index/field"
)

func makeField(t *testing.T, name string, ft field.Type) field.Field {
	t.Helper()
	f, err := field.New(name, ft)
	if err != nil {
		t.Fatalf("field.New(%q, %q): %v", name, ft, err)
	}
	return f
}

func TestNew_Valid(t *testing.T) {
	def, err := New("custom-users", []field.Field{
		makeField(t, "name", field.Keyword),
		makeField(t, "email", field.Text),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name() != "custom-users" {
		t.Errorf("Name() = %q", def.Name())
	}
	if len(def.Fields()) != 2 {
		t.Fatalf("Fields() len = %d, want 2", len(def.Fields()))
	}
	if def.Fields()[0].Name() != "name" || def.Fields()[1].Name() != "email" {
		t.Error("field order not preserved")
	}
}

func TestNew_NoFields(t *testing.T) {
	def, err := New("empty", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(def.Fields()) != 0 {
		t.Errorf("Fields() len = %d, want 0", len(def.Fields()))
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr string
	}{
		{"custom-users", ""},
		{"logs-2024.01", ""},
		{"", "required"},
		{strings.Repeat("a", 256), "too long"},
		{"Users", "lowercase"},
		{"_hidden", "must not start"},
		{"-dash", "must not start"},
		{"+plus", "must not start"},
		{"a b", "forbidden"},
		{"a*b", "forbidden"},
		{"a:b", "forbidden"},
		{"..", "not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNew_DuplicateField(t *testing.T) {
	_, err := New("users", []field.Field{
		makeField(t, "email", field.Text),
		makeField(t, "email", field.Keyword),
	})
	if err == nil {
		t.Fatal("expected error for duplicate field")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %q", err)
	}
}
