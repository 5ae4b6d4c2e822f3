package schema

import (
	"errors"
	"testing"
)

func TestValidate_Scrambles(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid list", `["R U R'", "F2 D"]`, false},
		{"empty list", `[]`, false},
		{"empty string", `["R", ""]`, true},
		{"not strings", `[1, 2]`, true},
		{"object", `{"scrambles": []}`, true},
		{"malformed", `["R U`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Scrambles, []byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidDocument
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidDocument, got: %T", err)
				}
				if invErr.Schema != Scrambles {
					t.Errorf("Schema = %q, want %q", invErr.Schema, Scrambles)
				}
			}
		})
	}
}

func TestValidate_SolveImport(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"minimal", `[{"solver":"Max Park","result":4.86,"scramble":"R U"}]`, false},
		{"full", `[{"puzzle":"3x3","solver":"Max Park","result":4.86,"competition":"Pacific 2023","solve_date":"2023-06-11","scramble":"R U","reconstruction":"R U // cross","method":"CFOP","stm_cross1":7,"time_cross1":0.9,"alg_cubing_url":null}]`, false},
		{"missing scramble", `[{"solver":"Max Park","result":4.86}]`, true},
		{"negative result", `[{"solver":"x","result":-1,"scramble":"R"}]`, true},
		{"fractional stm", `[{"solver":"x","result":5,"scramble":"R","stm_cross1":7.5}]`, true},
		{"bad date", `[{"solver":"x","result":5,"scramble":"R","solve_date":"June 11"}]`, true},
		{"unknown field", `[{"solver":"x","result":5,"scramble":"R","extra":true}]`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(SolveImport, []byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`[]`))
	if err == nil {
		t.Fatal("expected error for unknown schema")
	}
	var invErr *ErrInvalidDocument
	if errors.As(err, &invErr) {
		t.Fatal("unknown schema should not be reported as an invalid document")
	}
}

func TestSchemaCache(t *testing.T) {
	if err := Validate(Scrambles, []byte(`["R"]`)); err != nil {
		t.Fatal(err)
	}
	if _, ok := schemaCache.Load(Scrambles); !ok {
		t.Fatal("expected schema to be cached")
	}
}
