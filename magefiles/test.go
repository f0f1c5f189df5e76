//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const coverProfile = "coverage.out"

// Test groups test targets.
type Test mg.Namespace

// All runs every package's tests.
func (Test) All() error {
	return sh.RunV(binGo, "test", "./...")
}

// Race runs every package's tests with the race detector.
func (Test) Race() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Cover runs every package's tests and prints per-function coverage.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func="+coverProfile)
}

// Smoke builds the binary and runs it against a scratch config and data
// directory: init, a company, a product, a warehouse, and a status report.
func Smoke() error {
	mg.Deps(Build)

	scratch, err := os.MkdirTemp("", "logistics-smoke-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratch)

	bin := filepath.Join(binaryDir, binaryName)
	run := func(args ...string) (string, error) {
		base := []string{
			"--config-dir", filepath.Join(scratch, "config"),
			"--data-dir", filepath.Join(scratch, "data"),
		}
		return sh.Output(bin, append(base, args...)...)
	}

	if _, err := run("init", "--journal"); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if _, err := run("company", "add", "--name", "Smoke Co"); err != nil {
		return fmt.Errorf("company add: %w", err)
	}
	if _, err := run("warehouse", "add", "--name", "Smoke Depot", "--capacity", "10"); err != nil {
		return fmt.Errorf("warehouse add: %w", err)
	}
	out, err := run("status")
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	fmt.Println(out)
	return nil
}
