package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/delaneyj/knowweb/component"
	"github.com/delaneyj/knowweb/dom"
	"github.com/delaneyj/knowweb/store"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

// sizes returns the powers of ten up to and including limit.
func sizes(limit uint64) []int {
	var out []int
	for n := 1; uint64(n) <= limit; n *= 10 {
		out = append(out, n)
	}
	return out
}

func bench(ctx context.Context, cmd *cli.Command) error {
	widths := sizes(cmd.Uint(widthKey))
	depths := sizes(cmd.Uint(depthKey))
	iters := int(cmd.Uint(itersKey))
	if iters < 1 {
		return fmt.Errorf("bench: iters must be positive")
	}

	log.Printf("warming up")
	benchmarkStores([]int{1}, []int{1}, iters, false)

	benchmarkStores(widths, depths, iters, true)
	benchmarkFlush(widths, iters)
	return nil
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "ops/s"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	ops := int64(0)
	if calc.Time.Avg > 0 {
		ops = int64(time.Second / calc.Time.Avg)
	}
	tbl.AppendRow(table.Row{
		name,
		calc.Time.Avg,
		calc.Time.Min,
		calc.Time.P75,
		calc.Time.P99,
		calc.Time.Max,
		humanize.Comma(ops),
	})
}

// benchmarkStores times a write to one store fanning out to w chains of h
// derived stores, each with a subscriber at the end.
func benchmarkStores(widths, depths []int, iters int, shouldRender bool) {
	tbl := newTable("Stores")

	for _, w := range widths {
		for _, h := range depths {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			sys := store.NewSystem()
			src := store.Writable(sys, 1)
			var unsubs []func()
			for i := 0; i < w; i++ {
				var last store.Subscribable[int] = src
				for j := 0; j < h; j++ {
					last = store.Derived(sys, last, func(v int) int {
						return v + 1
					})
				}
				unsubs = append(unsubs, last.Subscribe(func(int) {}, nil))
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Update(func(v int) int { return v + 1 })
				tach.AddTime(time.Since(start))
			}
			for _, unsub := range unsubs {
				unsub()
			}

			appendCalc(tbl, fmt.Sprintf("propagate: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

var counter = &component.Definition{
	Name:  "Counter",
	Props: map[string]int{"count": 0},
	Setup: func(c *component.Instance, props component.Props) []any {
		return []any{props["count"]}
	},
	Fragment: func(c *component.Instance) component.Fragment {
		return component.NewElement(c, "span", 0, func(v any) string {
			n, _ := v.(int)
			return strconv.Itoa(n)
		})
	},
}

// benchmarkFlush times one flush after every one of w mounted components
// had a field written.
func benchmarkFlush(widths []int, iters int) {
	tbl := newTable("Component flush")

	for _, w := range widths {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		s := component.NewScheduler()
		body := dom.NewElement("body")
		instances := make([]*component.Instance, w)
		for i := range instances {
			instances[i] = s.New(counter, component.Options{Target: body, Props: component.Props{"count": 0}})
		}

		for i := 0; i < iters; i++ {
			for _, c := range instances {
				c.Write(0, i+1)
			}
			start := time.Now()
			s.Tick()
			tach.AddTime(time.Since(start))
		}
		for _, c := range instances {
			c.Destroy()
		}

		appendCalc(tbl, fmt.Sprintf("flush: %d", w), tach)
	}

	tbl.Render()
}
