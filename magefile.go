//go:build mage

package main

import (
	"github.com/magefile/mage/sh"
)

// Build compiles the canid binary.
func Build() error {
	return sh.Run("go", "build", "-o", "canid", "./cmd/canid")
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet.
func Lint() error {
	return sh.Run("go", "vet", "./...")
}
