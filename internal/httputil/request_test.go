package httputil

import (
	"encoding/json"
	"testing"
)

// ==== UNIT TESTS for PATCH tri-state fields ====

func TestOptionalStringTriState(t *testing.T) {
	type patch struct {
		FolderID OptionalString `json:"folder_id"`
	}

	tests := []struct {
		name        string
		body        string
		wantPresent bool
		wantValue   *string
	}{
		{name: "absent field", body: `{}`, wantPresent: false},
		{name: "explicit null", body: `{"folder_id": null}`, wantPresent: true, wantValue: nil},
		{name: "set value", body: `{"folder_id": "f1"}`, wantPresent: true, wantValue: strPtr("f1")},
		{name: "empty string", body: `{"folder_id": ""}`, wantPresent: true, wantValue: strPtr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.FolderID.Present != tt.wantPresent {
				t.Errorf("Present = %v, want %v", p.FolderID.Present, tt.wantPresent)
			}
			if (p.FolderID.Value == nil) != (tt.wantValue == nil) {
				t.Fatalf("Value = %v, want %v", p.FolderID.Value, tt.wantValue)
			}
			if tt.wantValue != nil && *p.FolderID.Value != *tt.wantValue {
				t.Errorf("Value = %q, want %q", *p.FolderID.Value, *tt.wantValue)
			}
		})
	}
}

func TestOptionalStringRejectsNonString(t *testing.T) {
	var o OptionalString
	if err := json.Unmarshal([]byte(`42`), &o); err == nil {
		t.Error("expected an error for a non-string value")
	}
}

func strPtr(s string) *string { return &s }
