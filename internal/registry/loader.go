package registry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/tokencheck/internal/compiler"
	"github.com/roach88/tokencheck/internal/tokens"
)

// JSONSuffix marks JSON family files.
const JSONSuffix = ".tokens.json"

// Load error codes.
const (
	ErrCodeNotFound    = "E005" // path not found
	ErrCodeNoFiles     = "E003" // no schema files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeCompile     = "E007" // a family failed to compile
)

// LoadError represents an error that occurred before validation could run.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadOptions configures LoadDir.
type LoadOptions struct {
	// Logger receives debug records for every compiled family.
	// Defaults to a discarding logger.
	Logger *slog.Logger
}

// SourceFiles lists the schema sources found under a directory.
type SourceFiles struct {
	CUE  []string
	JSON []string
}

// FindSources walks dir and returns .cue and *.tokens.json files, sorted.
func FindSources(dir string) (SourceFiles, error) {
	var files SourceFiles
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch {
		case strings.HasSuffix(path, JSONSuffix):
			files.JSON = append(files.JSON, path)
		case filepath.Ext(path) == ".cue":
			files.CUE = append(files.CUE, path)
		}
		return nil
	})
	sort.Strings(files.CUE)
	sort.Strings(files.JSON)
	return files, err
}

// LoadFamilies compiles every family found in dir without building a Registry.
// CUE files must belong to one package in dir itself; JSON files may live
// in subdirectories.
func LoadFamilies(dir string, opts LoadOptions) ([]tokens.FamilySchema, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err), Err: err}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := FindSources(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error scanning directory: %v", err), Err: err}
	}
	if len(files.CUE) == 0 && len(files.JSON) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no schema files (.cue, %s) found in %s", JSONSuffix, dir)}
	}

	var families []tokens.FamilySchema

	if len(files.CUE) > 0 {
		cueFamilies, err := loadCUE(dir)
		if err != nil {
			return nil, err
		}
		families = append(families, cueFamilies...)
	}

	for _, path := range files.JSON {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading %s: %v", path, err), Err: err}
		}
		fam, err := compiler.CompileFamilyJSON(path, data)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeCompile, Message: err.Error(), Err: err}
		}
		families = append(families, *fam)
	}

	for _, fam := range families {
		logger.Debug("compiled token family",
			"family", fam.ID,
			"extends", fam.Extends,
			"tokens", len(fam.Tokens),
			"source", fam.Source,
		)
	}

	return families, nil
}

// LoadDir compiles every family in dir and builds a Registry from them.
func LoadDir(dir string, opts LoadOptions) (*Registry, error) {
	families, err := LoadFamilies(dir, opts)
	if err != nil {
		return nil, err
	}
	return New(families)
}

// loadCUE builds the CUE package in dir and compiles its family struct.
func loadCUE(dir string) ([]tokens.FamilySchema, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err), Err: inst.Err}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err), Err: err}
	}

	var families []tokens.FamilySchema
	familiesVal := value.LookupPath(cue.ParsePath("family"))
	if !familiesVal.Exists() {
		return families, nil
	}

	iter, err := familiesVal.Fields()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("iterating families: %v", err), Err: err}
	}
	for iter.Next() {
		fam, err := compiler.CompileFamily(iter.Value())
		if err != nil {
			return nil, &LoadError{Code: ErrCodeCompile, Message: err.Error(), Err: err}
		}
		families = append(families, *fam)
	}

	return families, nil
}
