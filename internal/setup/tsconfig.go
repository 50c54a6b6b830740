package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ormstarter/ormstarter/internal/registry"
)

// TSConfigFileName is the TypeScript compiler configuration file.
const TSConfigFileName = "tsconfig.json"

type compilerOptions struct {
	Target                           string   `json:"target"`
	Module                           string   `json:"module"`
	Lib                              []string `json:"lib"`
	OutDir                           string   `json:"outDir"`
	RootDir                          string   `json:"rootDir"`
	Strict                           bool     `json:"strict"`
	EsModuleInterop                  bool     `json:"esModuleInterop"`
	SkipLibCheck                     bool     `json:"skipLibCheck"`
	ForceConsistentCasingInFileNames bool     `json:"forceConsistentCasingInFileNames"`
	ExperimentalDecorators           bool     `json:"experimentalDecorators"`
	EmitDecoratorMetadata            bool     `json:"emitDecoratorMetadata"`
	ResolveJSONModule                bool     `json:"resolveJsonModule"`
}

type tsconfig struct {
	CompilerOptions compilerOptions `json:"compilerOptions"`
	Include         []string        `json:"include"`
	Exclude         []string        `json:"exclude"`
}

func defaultTSConfig() tsconfig {
	return tsconfig{
		CompilerOptions: compilerOptions{
			Target:                           "ES2020",
			Module:                           "commonjs",
			Lib:                              []string{"ES2020"},
			OutDir:                           "./dist",
			RootDir:                          "./src",
			Strict:                           true,
			EsModuleInterop:                  true,
			SkipLibCheck:                     true,
			ForceConsistentCasingInFileNames: true,
			ExperimentalDecorators:           true,
			EmitDecoratorMetadata:            true,
			ResolveJSONModule:                true,
		},
		Include: []string{"src/**/*"},
		Exclude: []string{"node_modules", "dist"},
	}
}

// EnsureTSConfigs writes the default tsconfig.json into every typed
// template that lacks one and returns the paths it wrote. Templates whose
// source directory is missing are skipped.
func EnsureTSConfigs(root string, reg *registry.Registry) ([]string, error) {
	data, err := json.MarshalIndent(defaultTSConfig(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", TSConfigFileName, err)
	}
	data = append(data, '\n')

	var written []string
	for _, d := range reg.All() {
		if !d.Typed {
			continue
		}
		dir := registry.SourceDir(root, d.Key)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		path := filepath.Join(dir, TSConfigFileName)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
