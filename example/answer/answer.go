// Package answer defines the capability contract shared by the example
// host and the example plugins.
package answer

// Capability identifies the answer provider contract. Hosts and plugins
// compare this string by value; bump the suffix when the contract
// changes incompatibly.
const Capability = "example.module.go/answer@v1"

// Answerer is the contract the example plugins implement.
type Answerer interface {
	Value() int
}
