// Command sapc compiles a .sap interface-definition file, together with
// everything it imports, into a single deterministic JSON schema document.
package main

import (
	"fmt"
	"os"

	"github.com/eaburns/pretty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sapc.dev/sapc/internal/compiler"
	"sapc.dev/sapc/internal/depfile"
	"sapc.dev/sapc/internal/diag"
	"sapc.dev/sapc/internal/projector"
	"sapc.dev/sapc/internal/resolver"
	"sapc.dev/sapc/internal/validator"
)

// Exit codes, per §6: 0 success; 1 invalid CLI; 2 compilation error;
// 3 file-write error; 4 validation error.
const (
	exitOK            = 0
	exitInvalidCLI    = 1
	exitCompileError  = 2
	exitWriteError    = 3
	exitValidateError = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		searchPaths []string
		outPath     string
		depPath     string
		dumpSchema  bool
	)

	root := &cobra.Command{
		Use:   "sapc [options] <input.sap>",
		Short: "Compile a .sap interface-definition file to JSON",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
	}
	registerFlags(root.Flags(), &searchPaths, &outPath, &depPath, &dumpSchema)

	exitCode := exitOK
	root.RunE = func(_ *cobra.Command, args []string) error {
		exitCode = compileFile(args[0], searchPaths, outPath, depPath, dumpSchema)
		return nil
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInvalidCLI
	}
	return exitCode
}

func registerFlags(flags *pflag.FlagSet, searchPaths *[]string, outPath, depPath *string, dumpSchema *bool) {
	flags.StringArrayVarP(searchPaths, "include", "I", nil, "add a search path (repeatable)")
	flags.StringVarP(outPath, "output", "o", "", "output JSON file (default: stdout)")
	flags.StringVarP(depPath, "depfile", "d", "", "also emit a make-style dependency file")
	flags.BoolVar(dumpSchema, "dump-schema", false, "pretty-print the compiled schema tree to stderr for debugging")
}

func compileFile(srcPath string, searchPaths []string, outPath, depPath string, dumpSchema bool) int {
	result := compiler.Compile(srcPath,
		compiler.WithResolver(resolver.FS{}),
		compiler.WithSearchPaths(searchPaths),
	)
	if result.Diagnostics.HasErrors() {
		printDiagnostics(result.Diagnostics)
		return exitCompileError
	}

	validator.Validate(result.Diagnostics, result.Module)
	if result.Diagnostics.HasErrors() {
		printDiagnostics(result.Diagnostics)
		return exitValidateError
	}
	printDiagnostics(result.Diagnostics)

	if dumpSchema {
		pretty.Print(result.Module)
	}

	doc := projector.Project(result.Module)
	out, err := projector.Marshal(doc)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitWriteError
	}
	out = append(out, '\n')

	if err := writeOutput(outPath, out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitWriteError
	}

	if depPath != "" {
		target := outPath
		if target == "" {
			target = srcPath
		}
		if err := writeDepfile(depPath, target, result.Dependencies); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitWriteError
		}
	}

	return exitOK
}

func printDiagnostics(log *diag.Log) {
	for _, d := range log.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o666)
}

func writeDepfile(path, target string, deps []string) error {
	fp, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return err
	}
	writeErr := depfile.Write(fp, target, deps)
	closeErr := fp.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}
