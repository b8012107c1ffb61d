// Package module implements a class loader for shared library plugins.
// This file contains the creator backed by a JSON document.
package module

import (
	"encoding/json"
	"fmt"
)

// JSONCreator returns a Creator that decodes the given JSON document
// into a fresh *T for every instance. The document is validated once at
// registration time; creation itself cannot fail afterwards. It is the
// JSON counterpart of ProtoCreator for plugins that ship configured
// defaults as plain documents.
func JSONCreator[T any](document []byte) (Creator, error) {
	var probe T
	if err := json.Unmarshal(document, &probe); err != nil {
		return nil, fmt.Errorf("failed to decode creator document: %w", err)
	}

	raw := make([]byte, len(document))
	copy(raw, document)

	return CreatorFunc(func() any {
		instance := new(T)
		if err := json.Unmarshal(raw, instance); err != nil {
			return nil
		}
		return instance
	}), nil
}
