// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"sync"

	"github.com/jsonvc/jsonvc/internal/schema"
)

// wireSchema is compiled once and shared by every FromGeneric/
// FromGenericExtPatch call: the embedded schemas never change at runtime,
// so there is no reason to recompile them per call.
var (
	wireSchemaOnce sync.Once
	wireSchema     *schema.Validator
	wireSchemaErr  error
)

func wireSchemaValidator() (*schema.Validator, error) {
	wireSchemaOnce.Do(func() {
		wireSchema, wireSchemaErr = schema.New()
	})
	if wireSchemaErr != nil {
		return nil, fmt.Errorf("model: compile wire schemas: %w", wireSchemaErr)
	}
	return wireSchema, nil
}

// validateNodeShape runs the Graph Node JSON Schema against a decoded value
// before FromGeneric trusts it enough to unmarshal into a GraphNode.
func validateNodeShape(v any) error {
	validator, err := wireSchemaValidator()
	if err != nil {
		return err
	}
	return validator.ValidateNode(v)
}

// validateExtPatchShape runs the Ext-Patch JSON Schema against a decoded
// value before FromGenericExtPatch trusts it enough to unmarshal into an
// ExtPatch.
func validateExtPatchShape(v any) error {
	validator, err := wireSchemaValidator()
	if err != nil {
		return err
	}
	return validator.ValidateExtPatch(v)
}
