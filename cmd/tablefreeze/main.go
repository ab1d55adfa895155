package main

import (
	"flag"
	"fmt"
	"os"

	"tablefreeze/pkg/freeze"
	"tablefreeze/pkg/html"
	"tablefreeze/pkg/js"
	"tablefreeze/pkg/render"
)

func main() {
	var (
		outFile    = flag.String("out", "", "write a PNG snapshot of the first frozen table")
		runScripts = flag.Bool("scripts", false, "execute the document's scripts before freezing")
		stickySel  = flag.String("sticky-offset", "", "selector of the element whose height sets the sticky activation offset")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <input.html>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputFile := flag.Arg(0)

	content, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}
	doc, err := html.Parse(string(content))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing HTML: %v\n", err)
		os.Exit(1)
	}

	engine := js.New()
	engine.Bind(doc)

	ctrl, err := freeze.New(staticHost(), freeze.Options{StickyOffsetSelector: *stickySel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building controller: %v\n", err)
		os.Exit(1)
	}
	engine.BindController(ctrl)

	if *runScripts {
		if err := engine.Execute(doc); err != nil {
			fmt.Fprintf(os.Stderr, "Script error: %v\n", err)
			os.Exit(1)
		}
	}

	if !ctrl.Destroyed() && len(ctrl.Tables()) == 0 {
		// Scripts may have initialized already; otherwise do it here.
		ctrl.Initialize(doc.Root)
	}

	tables := ctrl.Tables()
	if len(tables) == 0 {
		fmt.Fprintf(os.Stderr, "No tables with data-freeze-rows or data-freeze-cols found\n")
		os.Exit(1)
	}

	meas := freeze.StyleMeasurer{}
	for i, table := range tables {
		m := freeze.BuildMatrix(table)
		z := freeze.ResolveZone(m, freeze.FreezeRows(table), freeze.FreezeCols(table))
		fmt.Printf("table %d: %dx%d grid, %d header rows\n", i, m.Rows, m.Cols, m.HeaderRows)
		fmt.Printf("  frozen: %d by row, %d by col\n", z.FrozenRowCount(), z.FrozenColCount())
		fmt.Printf("  boundaries: row %d, col %d\n", z.RowBoundary, z.ColBoundary)
		o := freeze.ComputeOffsets(m, z, meas)
		if len(o.Lefts) > 0 {
			fmt.Printf("  left offsets: %v\n", o.Lefts)
		}
		if len(o.Tops) > 0 {
			fmt.Printf("  top offsets: %v\n", o.Tops)
		}
	}

	if *outFile != "" {
		table := tables[0]
		m := freeze.BuildMatrix(table)
		z := freeze.ResolveZone(m, freeze.FreezeRows(table), freeze.FreezeCols(table))
		r := render.Snapshot(m, z, meas)
		if err := r.SavePNG(*outFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving PNG: %v\n", err)
			os.Exit(1)
		}
		w, h := r.Size()
		fmt.Printf("Wrote %dx%d snapshot to %s\n", w, h, *outFile)
	}
}

// staticHost builds a Host for one-shot command-line runs: frames run
// immediately, there is nothing to observe, and geometry comes from
// inline styles.
func staticHost() freeze.Host {
	return freeze.Host{
		Frames: immediateFrames{},
		NewBoxObserver: func(onChange func()) freeze.BoxObserver {
			return noopObserver{}
		},
		NewMutationObserver: func(root *html.Node, onMutation func()) freeze.MutationObserver {
			return noopObserver{}
		},
		Scroll:  staticScroll{},
		Measure: freeze.StyleMeasurer{},
	}
}

type immediateFrames struct{}

func (immediateFrames) Request(fn func()) (cancel func()) {
	fn()
	return func() {}
}

type noopObserver struct{}

func (noopObserver) Observe(n *html.Node)   {}
func (noopObserver) Unobserve(n *html.Node) {}
func (noopObserver) Disconnect()            {}

type staticScroll struct{}

func (staticScroll) AddListener(fn func()) (remove func()) { return func() {} }
func (staticScroll) Offset() float64                       { return 0 }
