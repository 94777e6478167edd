// Command sgc is the shader graph compiler CLI.
//
// Usage:
//
//	sgc [global options] <subcommand> [args]
//
// Examples:
//
//	sgc validate tinted.yaml              # Check a graph
//	sgc compile -t wgsl tinted.yaml       # Compile to WGSL on stdout
//	sgc compile -t msl -o build *.yaml    # Compile into a directory
//	sgc fmt -w tinted.yaml                # Rewrite in canonical form
//	sgc watch -t glsl shaders/*.lisp      # Recompile on change
package main

import "github.com/gogpu/shadergraph/cmd/sgc/internal/command"

func main() {
	command.Execute()
}
