//go:build stave

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target when running `stave` with no arguments.
var Default = All

// Aliases for common targets.
var Aliases = map[string]interface{}{
	"b": Build,
	"t": Test,
	"l": Lint,
	"c": Clean,
}

// All runs the complete build pipeline: lint, test, and build.
func All() error {
	st.Deps(Init)
	st.Deps(Lint, Test)
	st.Deps(Build)
	return nil
}

// Init ensures the module dependencies are up to date.
func Init() error {
	return sh.Run("go", "mod", "tidy")
}

// Build compiles both deid-eval and deid-spans binaries.
func Build() error {
	st.Deps(Init)
	st.Deps(Build_Eval, Build_Spans)
	return nil
}

// Build_Eval compiles the deid-eval binary with version information.
func Build_Eval() error {
	return buildBinary("deid-eval")
}

// Build_Spans compiles the deid-spans binary with version information.
func Build_Spans() error {
	return buildBinary("deid-spans")
}

func buildBinary(name string) error {
	st.Deps(Init)

	out := "bin/" + name
	rebuild, err := target.Glob(out, "**/*.go", "go.mod", "go.sum")
	if err != nil {
		return fmt.Errorf("checking rebuild: %w", err)
	}
	if !rebuild {
		if st.Verbose() {
			fmt.Printf("%s is up to date\n", name)
		}
		return nil
	}

	return sh.RunV("go", "build", "-ldflags", buildLdflags(), "-o", out, "./cmd/"+name)
}

// buildLdflags returns ldflags for version injection.
func buildLdflags() string {
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	date := time.Now().Format(time.RFC3339)

	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		strings.TrimSpace(version),
		strings.TrimSpace(commit),
		date,
	)
}

// Test runs every package's tests with the race detector.
func Test() error {
	st.Deps(Init)
	return sh.RunV("go", "test", "-race", "-cover", "./...")
}

// Lint runs golangci-lint on the codebase.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code using gofmt and goimports.
func Fmt() error {
	if err := sh.Run("gofmt", "-w", "."); err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if err := sh.Run("goimports", "-w", "."); err != nil {
		return fmt.Errorf("goimports: %w", err)
	}
	return nil
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	artifacts := []string{
		"bin/",
		"coverage.out",
		"coverage.html",
		"report.json",
	}
	for _, a := range artifacts {
		if err := sh.Rm(a); err != nil {
			return fmt.Errorf("removing %s: %w", a, err)
		}
	}
	return nil
}

// Install builds and installs the binaries to GOBIN.
func Install() error {
	st.Deps(Build)

	gocmd := st.GoCmd()
	bin, err := sh.Output(gocmd, "env", "GOBIN")
	if err != nil {
		return fmt.Errorf("determining GOBIN: %w", err)
	}
	if bin == "" {
		gopath, err := sh.Output(gocmd, "env", "GOPATH")
		if err != nil {
			return fmt.Errorf("determining GOPATH: %w", err)
		}
		bin = gopath + "/bin"
	}

	binaries := []string{"deid-eval", "deid-spans"}
	for _, name := range binaries {
		src := "bin/" + name
		dst := bin + "/" + name
		if runtime.GOOS == "windows" {
			dst += ".exe"
		}
		if err := sh.Copy(dst, src); err != nil {
			return fmt.Errorf("installing %s: %w", name, err)
		}
		if st.Verbose() {
			fmt.Printf("Installed %s to %s\n", name, dst)
		}
	}
	return nil
}

// Eval namespace for running the evaluator over the sample corpus.
type Eval st.Namespace

// Sample scores both sample brat runs in the NER subtrack and writes report.json.
func (Eval) Sample() error {
	st.Deps(Build_Eval)

	return sh.RunV("./bin/deid-eval", "brat", "ner", "-v",
		"--json", "report.json",
		"testdata/brat/gold",
		"testdata/brat/system/runA",
		"testdata/brat/system/runB",
	)
}

// Spans scores the sample runs in the spans subtrack (strict and merged).
func (Eval) Spans() error {
	st.Deps(Build_Eval)

	return sh.RunV("./bin/deid-eval", "brat", "spans",
		"testdata/brat/gold",
		"testdata/brat/system/runA",
		"testdata/brat/system/runB",
	)
}

// Custom scores DEID_GOLD against DEID_SYSTEM in DEID_FORMAT (default brat)
// and DEID_SUBTRACK (default ner).
func (Eval) Custom() error {
	st.Deps(Build_Eval)

	gold, system := os.Getenv("DEID_GOLD"), os.Getenv("DEID_SYSTEM")
	if gold == "" || system == "" {
		return fmt.Errorf("DEID_GOLD and DEID_SYSTEM must be set")
	}
	format := os.Getenv("DEID_FORMAT")
	if format == "" {
		format = "brat"
	}
	subtrack := os.Getenv("DEID_SUBTRACK")
	if subtrack == "" {
		subtrack = "ner"
	}

	return sh.RunV("./bin/deid-eval", format, subtrack, gold, system)
}

// CI runs the full CI pipeline (lint, test, build).
func CI() error {
	st.Deps(Init)
	st.SerialDeps(Lint, Test, Build)
	return nil
}

// Check runs vet, lint and the tests.
func Check() error {
	st.Deps(Vet, Lint, Test)
	return nil
}

// Coverage generates a coverage report.
func Coverage() error {
	st.Deps(Init)
	if err := sh.RunV("go", "test", "-race", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}
