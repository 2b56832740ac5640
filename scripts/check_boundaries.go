// Command check_boundaries enforces the hexagonal import rules of every
// bounded context under contexts/. Run it from the repository root:
//
//	go run ./scripts/check_boundaries.go
package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
)

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists what a layer directory may import besides the standard
// library. Prefixes starting with "@/" are relative to the owning service,
// "~/" to the module root.
type layerRule struct {
	allow        []string
	stdlibOnly   bool
	noAdapters   bool
	noRuntime    bool
	allowMessage string
}

var layerRules = map[string]layerRule{
	"domain": {
		allow:        []string{"@/domain"},
		noAdapters:   true,
		noRuntime:    true,
		allowMessage: "domain import is outside explicit allowlist",
	},
	"application": {
		allow:        []string{"@/application", "@/domain", "@/ports", "~/contracts"},
		noAdapters:   true,
		noRuntime:    true,
		allowMessage: "application import is outside explicit allowlist",
	},
	"ports": {
		allow:        []string{"@/domain", "~/contracts"},
		allowMessage: "ports import is outside explicit allowlist",
	},
	"transport": {
		stdlibOnly:   true,
		allowMessage: "transport DTOs must only use the standard library",
	},
}

func main() {
	module, err := readModulePath("go.mod")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read go.mod: %v\n", err)
		os.Exit(2)
	}

	checker := boundaryChecker{module: module}
	violations := checker.walk("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Import < b.Import
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func readModulePath(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	file, err := modfile.ParseLax(path, data, nil)
	if err != nil {
		return "", err
	}
	if file.Module == nil || file.Module.Mod.Path == "" {
		return "", fmt.Errorf("%s has no module directive", path)
	}
	return file.Module.Mod.Path, nil
}

type boundaryChecker struct {
	module string
}

func (c boundaryChecker) walk(root string) []violation {
	var found []violation
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel := filepath.ToSlash(path)
		parts := strings.Split(rel, "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}
		service := strings.Join([]string{c.module, "contexts", parts[1], parts[2]}, "/")
		found = append(found, c.checkFile(path, rel, parts[3], service)...)
		return nil
	})
	return found
}

func (c boundaryChecker) checkFile(path string, rel string, layer string, service string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: rel, Line: 1, Rule: "file must parse"}}
	}

	rule, hasRule := layerRules[layer]
	var found []violation
	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, `"`)
		report := func(reason string) {
			found = append(found, violation{
				File:   rel,
				Line:   fset.Position(imp.Pos()).Line,
				Import: importPath,
				Rule:   reason,
			})
		}

		if within(importPath, c.module+"/contexts") && !within(importPath, service) {
			report("cross-module imports are forbidden")
		}
		if !hasRule {
			continue
		}
		if rule.noAdapters && strings.Contains(importPath, "/adapters/") {
			report(layer + " must not import adapters")
		}
		if rule.noRuntime && c.isRuntime(importPath) {
			report(layer + " must not import runtime infrastructure")
		}
		if c.isStdlib(importPath) {
			continue
		}
		if rule.stdlibOnly || !c.allowed(importPath, rule.allow, service) {
			report(rule.allowMessage)
		}
	}
	return found
}

func (c boundaryChecker) allowed(importPath string, patterns []string, service string) bool {
	for _, pattern := range patterns {
		prefix := pattern
		switch {
		case strings.HasPrefix(pattern, "@/"):
			prefix = service + pattern[1:]
		case strings.HasPrefix(pattern, "~/"):
			prefix = c.module + pattern[1:]
		}
		if within(importPath, prefix) {
			return true
		}
	}
	return false
}

func (c boundaryChecker) isRuntime(importPath string) bool {
	return within(importPath, c.module+"/internal") || within(importPath, c.module+"/cmd")
}

// isStdlib treats any import whose first element has no dot as standard
// library, unless it belongs to this module.
func (c boundaryChecker) isStdlib(importPath string) bool {
	if within(importPath, c.module) {
		return false
	}
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}

func within(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
