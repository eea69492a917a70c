// Command shaderinline-demo drives the inliner over a small fixture
// program and reports how many passes it ran.
//
// Usage:
//
//	shaderinline-demo [options]
//
// Examples:
//
//	shaderinline-demo                        # run with default settings
//	shaderinline-demo -threshold 20          # lower the size cutoff
//	shaderinline-demo -do-loops=false        # target has no do-loops
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/gogpu/shaderinline/inline"
	"github.com/gogpu/shaderinline/ir"
)

var (
	threshold = flag.Int("threshold", 0, "inline size threshold (0: use default, or SHADERINLINE_THRESHOLD)")
	maxPasses = flag.Int("passes", 0, "maximum fixpoint passes (0: use default, or SHADERINLINE_MAX_PASSES)")
	doLoops   = flag.Bool("do-loops", true, "target supports do { } while(false) loops")
	version   = flag.Bool("version", false, "print version")
)

const demoVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("shaderinline-demo version %s\n", demoVersion)
		return
	}

	settings := inline.DefaultSettings()
	if *threshold > 0 {
		settings.InlineThreshold = *threshold
	} else if env.Has("SHADERINLINE_THRESHOLD") {
		settings.InlineThreshold = env.Int("SHADERINLINE_THRESHOLD", settings.InlineThreshold)
	}
	settings.Caps = inline.StaticCaps{DoLoops: *doLoops}

	passLimit := *maxPasses
	if passLimit == 0 && env.Has("SHADERINLINE_MAX_PASSES") {
		passLimit = env.Int("SHADERINLINE_MAX_PASSES", 0)
	}

	ctx := tlog.ContextWithSpan(context.Background(), tlog.Root())
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "shaderinline-demo: run", "threshold", settings.InlineThreshold)
	defer tr.Finish()

	prog := buildFixtureProgram()

	var in inline.Inliner
	if err := in.Reset(ir.NewContext(), settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", errors.Wrap(err, "reset inliner"))
		os.Exit(1)
	}

	passes := 0
	if passLimit > 0 {
		for passes < passLimit {
			passes++
			if !in.Analyze(prog) {
				break
			}
		}
	} else {
		passes = in.AnalyzeToFixpoint(prog)
	}
	tr.Printw("inlining complete", "passes", passes, "elements", len(prog.Elements), "from", loc.Caller(0))
	fmt.Printf("ran %d pass(es) over %d top-level element(s)\n", passes, len(prog.Elements))
}

// buildFixtureProgram assembles a tiny program with one helper function and
// one caller, standing in for output an upstream lexer/parser would
// otherwise produce.
func buildFixtureProgram() *ir.Program {
	ctx := ir.NewContext()
	root := ir.NewSymbolTable(nil)

	// int addOne(int x) { return x + 1; }
	param := &ir.Variable{Name: "x", Type: ctx.IntType, Storage: ir.StorageParameter}
	addOne := &ir.FunctionDeclaration{Name: "addOne", ReturnType: ctx.IntType, Parameters: []*ir.Variable{param}, Modifiers: ir.ModInline}

	bodySyms := ir.NewSymbolTable(root)
	bodySyms.InsertVariable(param)
	body := &ir.Statement{Kind: &ir.Block{
		Symbols: bodySyms,
		IsScope: true,
		Statements: []*ir.Statement{
			{Kind: ir.Return{Expr: &ir.Expression{
				Type: ctx.IntType,
				Kind: ir.BinaryExpr{
					Op:   ir.BinAdd,
					Left: &ir.Expression{Type: ctx.IntType, Kind: ir.VariableReference{Variable: param, Role: ir.RoleRead}},
					Right: &ir.Expression{Type: ctx.IntType, Kind: ir.Literal{Value: ir.LiteralInt(1)}},
				},
			}}},
		},
	}}
	addOne.AddCall(1)
	addOneDef := &ir.FunctionDefinition{Declaration: addOne, Body: body}

	// void main() { int n = addOne(41); }
	mainDecl := &ir.FunctionDeclaration{Name: "main", ReturnType: ctx.VoidType}
	n := &ir.Variable{Name: "n", Type: ctx.IntType, Storage: ir.StorageLocal}
	mainSyms := ir.NewSymbolTable(root)
	mainBody := &ir.Statement{Kind: &ir.Block{
		Symbols: mainSyms,
		IsScope: true,
		Statements: []*ir.Statement{
			{Kind: ir.VarDecl{Variable: n}},
			{Kind: ir.ExpressionStatement{Expr: &ir.Expression{
				Type: ctx.IntType,
				Kind: ir.BinaryExpr{
					Op:   ir.BinAssign,
					Left: &ir.Expression{Type: ctx.IntType, Kind: ir.VariableReference{Variable: n, Role: ir.RoleWrite}},
					Right: &ir.Expression{Type: ctx.IntType, Kind: ir.FunctionCall{
						Callee:    addOne,
						Arguments: []*ir.Expression{{Type: ctx.IntType, Kind: ir.Literal{Value: ir.LiteralInt(41)}}},
					}},
				},
			}}},
		},
	}}
	mainSyms.InsertVariable(n)
	mainDef := &ir.FunctionDefinition{Declaration: mainDecl, Body: mainBody}

	return &ir.Program{
		Root: root,
		Elements: []ir.ProgramElement{
			addOneDef,
			mainDef,
		},
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: shaderinline-demo [options]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  shaderinline-demo                  Run with default settings\n")
	fmt.Fprintf(os.Stderr, "  shaderinline-demo -threshold 20    Lower the size cutoff\n")
}
