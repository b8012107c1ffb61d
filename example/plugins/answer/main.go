// The answer plugin registers a single class whose instances return the
// canonical answer. Build it next to the host with:
//
//	go build -buildmode=plugin -o answer.so ./plugins/answer
package main

import (
	"fmt"

	"github.com/modulepp/module.go/lib/module"

	"module_example/answer"
)

type answerer struct{}

func (answerer) Value() int { return 42 }

// BuildFactory registers the plugin's classes into the registry the host
// hands over. It is resolved by name, so it must stay exported with this
// exact signature.
func BuildFactory(r *module.Registry) error {
	b, err := module.Bind[answer.Answerer](r, answer.Capability)
	if err != nil {
		return err
	}
	return b.Register("answer", func() answer.Answerer { return answerer{} })
}

// InitializeLibrary runs once when the host loads the library.
func InitializeLibrary() {
	fmt.Println("answer plugin initialized")
}

// UninitializeLibrary runs once when the host unloads the library.
func UninitializeLibrary() {
	fmt.Println("answer plugin uninitialized")
}

// main is never called; -buildmode=plugin requires package main.
func main() {}
