// Command sqllint enforces the inline SQL convention: every SQL string
// constant starts with a `--sql <uuid>` marker line, and no two statements
// share a marker. The markers make individual statements traceable in
// database logs.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	sqlKeyword = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with)\b`)
	markerLine = regexp.MustCompile(`^--sql ([0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)
)

type finding struct {
	file    string
	line    int
	name    string
	message string
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"."}
	}

	var findings []finding
	seen := map[string]string{} // marker uuid -> first declaration

	for _, target := range targets {
		err := filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") || strings.HasPrefix(d.Name(), "_") || d.Name() == "vendor" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			fs, err := lintFile(path, seen)
			if err != nil {
				return err
			}
			findings = append(findings, fs...)
			return nil
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
			os.Exit(1)
		}
	}

	if len(findings) > 0 {
		fmt.Fprintln(os.Stderr, "sqllint: inline SQL convention violations")
		for _, f := range findings {
			fmt.Fprintf(os.Stderr, "  %s:%d %s (%s)\n", f.file, f.line, f.message, f.name)
		}
		os.Exit(1)
	}
}

func lintFile(path string, seen map[string]string) ([]finding, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var findings []finding
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		name := specName(spec)
		for _, value := range spec.Values {
			lit, ok := value.(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			raw, err := unquote(lit.Value)
			if err != nil || !sqlKeyword.MatchString(raw) {
				continue
			}
			pos := fset.Position(lit.Pos())
			m := markerLine.FindStringSubmatch(firstLine(raw))
			if m == nil {
				findings = append(findings, finding{
					file:    path,
					line:    pos.Line,
					name:    name,
					message: "missing or invalid --sql <uuid> marker",
				})
				continue
			}
			where := fmt.Sprintf("%s:%d", path, pos.Line)
			if prev, dup := seen[m[1]]; dup {
				findings = append(findings, finding{
					file:    path,
					line:    pos.Line,
					name:    name,
					message: "marker already used at " + prev,
				})
				continue
			}
			seen[m[1]] = where
		}
		return true
	})
	return findings, nil
}

func specName(spec *ast.ValueSpec) string {
	parts := make([]string, 0, len(spec.Names))
	for _, ident := range spec.Names {
		if ident != nil {
			parts = append(parts, ident.Name)
		}
	}
	return strings.Join(parts, ",")
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if len(v) == 0 {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}
