//go:build mage

// Package main provides build targets for taskdesk using Mage.
//
// Usage:
//
//	mage build        Compile the taskdesk binary to bin/
//	mage test:all     Run every test
//	mage test:race    Run every test with the race detector
//	mage test:cover   Write coverage.out and print the per-function summary
//	mage lint         Run golangci-lint
//	mage clean        Remove build artifacts
//	mage install      Install taskdesk to GOPATH/bin
//	mage stats        Print Go lines of code as JSON
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "taskdesk"
	binaryDir  = "bin"
	cmdDir     = "./cmd/taskdesk"
)

// ldflags stamps the binary with the output of git describe, when there is
// one.
func ldflags() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || strings.TrimSpace(v) == "" {
		return ""
	}
	return "-X main.version=" + strings.TrimSpace(v)
}

// Build compiles the taskdesk binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	if err := os.RemoveAll(coverProfile); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
