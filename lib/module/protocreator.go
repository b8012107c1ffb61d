// Package module implements a class loader for shared library plugins.
// This file contains the creator backed by a protobuf message prototype.
package module

import (
	"google.golang.org/protobuf/proto"
)

// ProtoCreator returns a Creator that clones the given prototype message
// for every instance. It lets plugins serve protobuf-typed classes
// without generated constructor code: the plugin registers a configured
// prototype and every Create call yields an independent deep copy.
func ProtoCreator[M proto.Message](prototype M) Creator {
	return CreatorFunc(func() any {
		return proto.Clone(prototype)
	})
}
