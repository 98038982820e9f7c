package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/pefan/pkg/config"
)

func ExampleLoad_yaml() {
	ctx := context.Background()
	configYAML := `
script: "if line.strip() { n += 1 } "
setup: "n = 0"
teardown: "print(n)"
no_print: true
`

	tmpDir, err := os.MkdirTemp("", "pefan-example")
	if err != nil {
		fmt.Printf("Error creating temp dir: %v\n", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "pefan.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error validating config: %v\n", err)
		return
	}

	fmt.Println(cfg)

	// Output:
	// script="if line.strip() { n += 1 } " setup=true teardown=true split=false sample=1
}

func ExampleLoad_hcl() {
	ctx := context.Background()
	configHCL := `
script     = "line = line.upper()"
split_char = ":"
sample     = 2
`

	tmpDir, err := os.MkdirTemp("", "pefan-example")
	if err != nil {
		fmt.Printf("Error creating temp dir: %v\n", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "pefan.hcl")
	if err := os.WriteFile(configPath, []byte(configHCL), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Error validating config: %v\n", err)
		return
	}

	fmt.Println(cfg)

	// Output:
	// script="line = line.upper()" setup=false teardown=false split=true sample=2
}
