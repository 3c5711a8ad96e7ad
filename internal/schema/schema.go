// Copyright 2026 Open Boundary Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package schema provides structural (JSON-Schema-backed) validation for the
// two wire shapes the core trusts bytes loaded from storage to have: Graph
// Node and Extended Patch. Full business-rule validation of arbitrary
// tracked documents stays out of scope — that belongs to the (external)
// document-archive layer — this package only guards the small, fixed shapes
// the core itself parses.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed node.schema.json
var nodeSchemaJSON []byte

//go:embed extpatch.schema.json
var extPatchSchemaJSON []byte

// Validator compiles and holds the two embedded schemas.
type Validator struct {
	node     *jsonschema.Schema
	extPatch *jsonschema.Schema
}

// New compiles the embedded Graph Node and Ext-Patch schemas once.
func New() (*Validator, error) {
	node, err := compile("jsonvc-node.schema.json", nodeSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("schema: compile node schema: %w", err)
	}
	extPatch, err := compile("jsonvc-extpatch.schema.json", extPatchSchemaJSON)
	if err != nil {
		return nil, fmt.Errorf("schema: compile ext-patch schema: %w", err)
	}
	return &Validator{node: node, extPatch: extPatch}, nil
}

func compile(id string, raw []byte) (*jsonschema.Schema, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(id, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(id)
}

// ValidateNode checks a decoded Graph Node document against its schema.
func (v *Validator) ValidateNode(decoded any) error {
	if err := v.node.Validate(decoded); err != nil {
		return fmt.Errorf("schema: graph node shape invalid: %w", err)
	}
	return nil
}

// ValidateExtPatch checks a decoded Ext-Patch document against its schema.
func (v *Validator) ValidateExtPatch(decoded any) error {
	if err := v.extPatch.Validate(decoded); err != nil {
		return fmt.Errorf("schema: ext-patch shape invalid: %w", err)
	}
	return nil
}
