//go:build mage

// Package main contains Mage build targets for social-bots developer tooling.
package main

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "social-bots"
	cmdPkg  = "./cmd/social-bots"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Vet runs go vet over every package.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Test runs the unit tests after vetting.
func Test() error {
	mg.Deps(Vet)
	return sh.RunV("go", "test", "./...")
}

// Stats prints non-blank Go lines per package, split into production and
// test code.
func Stats() error {
	counts, err := goLinesByPackage(".")
	if err != nil {
		return err
	}
	pkgs := make([]string, 0, len(counts))
	for pkg := range counts {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	var prod, test int
	for _, pkg := range pkgs {
		c := counts[pkg]
		fmt.Printf("%-32s %6d %6d\n", pkg, c.prod, c.test)
		prod += c.prod
		test += c.test
	}
	fmt.Printf("%-32s %6d %6d\n", "total (prod, test)", prod, test)
	return nil
}

type lineCount struct {
	prod, test int
}

// goLinesByPackage counts non-blank lines of every .go file under root,
// keyed by directory. Directories the go tool ignores (leading "_" or ".")
// are skipped.
func goLinesByPackage(root string) (map[string]lineCount, error) {
	counts := make(map[string]lineCount)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := nonBlankLines(path)
		if err != nil {
			return err
		}
		dir := filepath.Dir(path)
		c := counts[dir]
		if strings.HasSuffix(path, "_test.go") {
			c.test += n
		} else {
			c.prod += n
		}
		counts[dir] = c
		return nil
	})
	return counts, err
}

func nonBlankLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	n := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return n, nil
}
