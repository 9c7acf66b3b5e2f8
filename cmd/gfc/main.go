package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/funlang/gfc/pkg/cli"
	"github.com/funlang/gfc/pkg/codegen"
	"github.com/funlang/gfc/pkg/config"
	"github.com/funlang/gfc/pkg/lexer"
	"github.com/funlang/gfc/pkg/parser"
	"github.com/funlang/gfc/pkg/token"
	"github.com/funlang/gfc/pkg/util"
	"github.com/funlang/gfc/pkg/validator"
)

func main() {
	app := cli.NewApp("gfc")
	app.Synopsis = "[options] <input.fun> ..."
	app.Description = "A compiler for the fun expression language. Every value is a double, every program ends in main."
	app.Repository = "<https://github.com/funlang/gfc>"

	var (
		outFile    string
		emitAsm    bool
		linkerArgs []string
	)

	fs := app.FlagSet
	fs.String(&outFile, "output", "o", "a.out", "Place the output into <file>.", "file")
	fs.Bool(&emitAsm, "emit-asm", "S", false, "Write the generated assembly to <file> instead of an executable.")
	fs.List(&linkerArgs, "linker-arg", "L", []string{}, "Pass an argument to the linker.", "arg")

	cfg := config.NewConfig()
	warningFlags, featureFlags := cfg.SetupFlagGroups(fs)

	app.Action = func(inputFiles []string) error {
		for i, entry := range warningFlags {
			if entry.Enabled != nil && *entry.Enabled {
				cfg.SetWarning(config.Warning(i), true)
			}
			if entry.Disabled != nil && *entry.Disabled {
				cfg.SetWarning(config.Warning(i), false)
			}
		}
		for i, entry := range featureFlags {
			if entry.Enabled != nil && *entry.Enabled {
				cfg.SetFeature(config.Feature(i), true)
			}
			if entry.Disabled != nil && *entry.Disabled {
				cfg.SetFeature(config.Feature(i), false)
			}
		}
		cfg.SetTarget(runtime.GOARCH)
		cfg.LinkerArgs = append(cfg.LinkerArgs, linkerArgs...)

		if len(inputFiles) == 0 {
			return fmt.Errorf("no input files specified")
		}

		allTokens, err := readAndTokenizeFiles(inputFiles, cfg)
		if err != nil {
			return err
		}
		root, err := parser.NewParser(allTokens).Parse()
		if err != nil {
			return err
		}
		syms, err := validator.New(cfg).Check(root)
		if err != nil {
			return err
		}
		irProg := codegen.NewContext(cfg, syms).GenerateIR(root)
		asm, err := codegen.NewAmd64Backend().Generate(irProg, cfg)
		if err != nil {
			return err
		}

		if emitAsm {
			if outFile == "a.out" {
				outFile = "out.s"
			}
			return os.WriteFile(outFile, asm.Bytes(), 0o644)
		}
		return assembleAndLink(outFile, asm.String(), cfg.LinkerArgs)
	}

	if err := app.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "gfc: %v\n", err)
		os.Exit(1)
	}
}

// readAndTokenizeFiles tokenizes each input in order and concatenates the
// streams into a single translation unit.
func readAndTokenizeFiles(paths []string, cfg *config.Config) ([]token.Token, error) {
	var records []util.SourceFileRecord
	var allTokens []token.Token

	for i, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read file '%s': %w", path, err)
		}
		runeContent := []rune(string(content))
		records = append(records, util.SourceFileRecord{Name: path, Content: runeContent})
		util.SetSourceFiles(records)
		tokens, err := lexer.Tokenize(runeContent, i, cfg)
		if err != nil {
			return nil, err
		}
		allTokens = append(allTokens, tokens...)
	}
	return allTokens, nil
}

func assembleAndLink(outFile, asm string, linkerArgs []string) error {
	asmFile, err := os.CreateTemp("", "gfc-*.s")
	if err != nil {
		return fmt.Errorf("failed to create temp file for asm: %w", err)
	}
	defer os.Remove(asmFile.Name())
	if _, err := asmFile.WriteString(asm); err != nil {
		return fmt.Errorf("failed to write temp file for asm: %w", err)
	}
	asmFile.Close()

	// The emitted code addresses the pool through %rip but main is a plain
	// global symbol, so keep the link non-PIE for now.
	ccArgs := []string{"-no-pie", "-o", outFile, asmFile.Name()}
	ccArgs = append(ccArgs, linkerArgs...)

	cmd := exec.Command("cc", ccArgs...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("cc command failed: %w\nOutput:\n%s", err, string(output))
	}
	return nil
}
