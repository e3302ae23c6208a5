package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kr/pretty"

	"github.com/gosuda/variant/ast"
	"github.com/gosuda/variant/diag"
	"github.com/gosuda/variant/lexer"
	"github.com/gosuda/variant/parser"
)

func main() {
	tokens := flag.Bool("tokens", false, "print the token stream instead of the tree")
	fn := flag.String("fn", "", "only dump this function")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: debug_ast [-tokens] [-fn name] <script.var>")
		os.Exit(2)
	}
	f, err := os.Open(flag.Arg(0))
	if err != nil {
		panic(err)
	}
	defer f.Close()

	c := diag.NewCollector(nil)
	sink := diag.NewSink(c)
	if *tokens {
		src := lexer.NewReaderSource(f)
		toks, err := lexer.Tokenize(src, sink)
		for _, tok := range toks {
			fmt.Printf("%d:%d\t%s\n", tok.Line, tok.Column, tok)
		}
		if src.Err() != nil {
			panic(src.Err())
		}
		report(c, err)
		return
	}

	prog, err := parser.New(lexer.New(lexer.NewReaderSource(f), sink), sink).Parse()
	report(c, err)
	if prog == nil {
		os.Exit(1)
	}
	for _, name := range prog.Order {
		if *fn != "" && name != *fn {
			continue
		}
		def := prog.Functions[name]
		fmt.Println(ast.Format(def))
		pretty.Println(def)
	}
}

func report(c *diag.Collector, err error) {
	for _, d := range c.Diagnostics() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}
