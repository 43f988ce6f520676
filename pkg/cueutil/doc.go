// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the CUE parsing steps shared by agenda definition
// files and the application config:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate, then either decode to a Go value or walk the unified value
//
// Agenda decoding walks the unified value itself because topic order must be
// preserved, which a Go map cannot do:
//
//	value, err := cueutil.CompileAndUnify(schema, data, "#Agenda",
//	    cueutil.WithFilename(path))
//
// Struct-shaped inputs use the generic wrapper:
//
//	result, err := cueutil.ParseAndDecode[Config](schema, data, "#Config")
package cueutil
