/*
Glintc runs a glint script file and prints its final value.

Usage:

	glintc [flags] FILE

The flags are:

	-v, --version
		Give the current version of glintc and then exit.

	-w, --wrap WIDTH
		Column width used to wrap diagnostic output. Defaults to 80.

Exit codes: 0 on success, 1 on malformed invocation, -1 if the source file
cannot be opened.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/glint"
	"github.com/dekarrin/glint/internal/version"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful run.
	ExitSuccess = 0
	// ExitUsageError indicates a malformed invocation.
	ExitUsageError = 1
	// ExitFileError indicates the source file could not be opened.
	ExitFileError = -1
)

var (
	returnCode  int
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	wrapWidth   = pflag.IntP("wrap", "w", 80, "Column width used to wrap diagnostic output")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, wrapDiag("usage: glintc [flags] FILE"))
		returnCode = ExitUsageError
		return
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, wrapDiag(fmt.Sprintf("cannot open %s: %s", args[0], err.Error())))
		returnCode = ExitFileError
		return
	}

	entry, err := glint.ParseToAST(string(src))
	if err != nil {
		if pe, ok := err.(*glint.ParseError); ok {
			fmt.Fprintln(os.Stderr, wrapDiag(pe.FullMessage()))
		} else {
			fmt.Fprintln(os.Stderr, wrapDiag(err.Error()))
		}
		returnCode = ExitUsageError
		return
	}

	result, err := glint.Execute(os.Stdout, entry)
	if err != nil {
		fmt.Fprintln(os.Stderr, wrapDiag(err.Error()))
		returnCode = ExitUsageError
		return
	}

	fmt.Println(glint.Stringify(result))
}

func wrapDiag(s string) string {
	return rosed.Edit(s).Wrap(*wrapWidth).String()
}
