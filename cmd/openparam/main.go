package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	openparam "github.com/reoring/openparam"
	"github.com/reoring/openparam/i18n"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "check":
		checkCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "openparam CLI\n\nUsage:\n  openparam check -doc api.yaml -path /pets/{id} -method get -name petId -value 5 [-lang en]\n\nNotes:\n  - The raw value is taken verbatim; use -value '' for an explicitly empty input and omit -value for an absent one.")
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var docPath, path, method, name, value, lang string
	var hasValue bool
	fs.StringVar(&docPath, "doc", "", "Swagger 2.0 document (.json/.yaml)")
	fs.StringVar(&path, "path", "", "path template, e.g. /pets/{id}")
	fs.StringVar(&method, "method", "get", "HTTP method")
	fs.StringVar(&name, "name", "", "parameter name")
	fs.StringVar(&value, "value", "", "raw parameter value")
	fs.StringVar(&lang, "lang", "en", "message language (en/ja)")
	_ = fs.Parse(args)
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "value" {
			hasValue = true
		}
	})
	if docPath == "" || path == "" || name == "" {
		fs.Usage()
		os.Exit(2)
	}
	i18n.SetLanguage(lang)

	doc, err := loadDocument(docPath)
	if err != nil {
		fatalf("%v", err)
	}
	param, err := doc.Parameter(path, method, name)
	if err != nil {
		fatalf("%v", err)
	}

	var raw any
	if hasValue {
		raw = value
	}
	pv := param.Value(raw, openparam.Options{})
	if pv.Valid() {
		out, _ := json.MarshalIndent(map[string]any{"valid": true, "value": pv.Value()}, "", "  ")
		fmt.Println(string(out))
		return
	}
	e := pv.Err()
	out, _ := json.MarshalIndent(map[string]any{
		"valid":   false,
		"code":    e.Code,
		"path":    e.Path,
		"message": e.Message,
		"errors":  e.Errors,
	}, "", "  ")
	fmt.Println(string(out))
	os.Exit(1)
}

func loadDocument(p string) (*openparam.Document, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return openparam.LoadYAML(data)
	default:
		return openparam.LoadJSON(data)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "openparam: "+format+"\n", args...)
	os.Exit(1)
}
