// Command vecbench drives a sort-plus-ordered-aggregate pipeline over
// generated int64 rows end to end, exercising SortCore and
// OrderedAggregator the way a query plan would and reporting throughput.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/vectorlattice/vecql/aggfn"
	"github.com/vectorlattice/vecql/aggstate"
	"github.com/vectorlattice/vecql/engineconf"
	"github.com/vectorlattice/vecql/pagestore"
	"github.com/vectorlattice/vecql/sortcore"
	"github.com/vectorlattice/vecql/vecframe"
)

func fatalf(f string, args ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", args...)
	os.Exit(1)
}

func main() {
	var rows int
	var groups int
	var memBudgetMB int
	var aggName string
	var seed int64
	flag.IntVar(&rows, "rows", 1_000_000, "number of input rows to generate")
	flag.IntVar(&groups, "groups", 64, "number of distinct group keys")
	flag.IntVar(&memBudgetMB, "mem-mb", 64, "sort memory budget in MiB")
	flag.StringVar(&aggName, "agg", "sum", "aggregate function (count, sum, min, max)")
	flag.Int64Var(&seed, "seed", 1, "PRNG seed")
	flag.Parse()

	fn, ok := aggfn.Default.Lookup(aggName)
	if !ok {
		fatalf("unknown aggregate %q", aggName)
	}

	cfg := engineconf.Default()
	cfg.MemoryBudgetBytes = int64(memBudgetMB) * 1024 * 1024
	cfg = cfg.Normalize()

	mgr, err := pagestore.New(cfg)
	if err != nil {
		fatalf("pagestore.New: %s", err)
	}
	defer mgr.Close()

	rnd := rand.New(rand.NewSource(seed))
	keys := make([]int64, rows)
	orderVals := make([]int64, rows)
	argVals := make([]int64, rows)
	for i := 0; i < rows; i++ {
		keys[i] = int64(rnd.Intn(groups))
		orderVals[i] = rnd.Int63n(int64(rows))
		argVals[i] = rnd.Int63n(1000)
	}

	orderLayout := sortcore.NewKeyLayout([]sortcore.ColumnSpec{{Name: "y", Kind: vecframe.KindInt64, NullsFirst: true}})
	agg, err := aggstate.New(fn, orderLayout, []vecframe.Kind{vecframe.KindInt64}, mgr, cfg)
	if err != nil {
		fatalf("aggstate.New: %s", err)
	}

	const batchSize = 4096
	orderCol := func(batch []int64) *vecframe.Column {
		buf := vecframe.NewFlatBuffer(vecframe.KindInt64, len(batch))
		copy(buf.Int64s, batch)
		return vecframe.NewFlatColumn(buf, len(batch))
	}

	start := time.Now()
	for off := 0; off < rows; off += batchSize {
		end := off + batchSize
		if end > rows {
			end = rows
		}
		n := end - off
		byGroup := make(map[string][]int32, groups)
		for i := 0; i < n; i++ {
			key := fmt.Sprintf("%d", keys[off+i])
			byGroup[key] = append(byGroup[key], int32(i))
		}
		orderBatch := orderCol(orderVals[off:end])
		argBatch := orderCol(argVals[off:end])
		if err := agg.ScatterUpdate(byGroup, []*vecframe.Column{orderBatch}, []*vecframe.Column{argBatch}, n); err != nil {
			fatalf("ScatterUpdate: %s", err)
		}
	}
	ingestDur := time.Since(start)

	finalizeStart := time.Now()
	results, err := agg.Finalize()
	if err != nil {
		fatalf("Finalize: %s", err)
	}
	finalizeDur := time.Since(finalizeStart)

	rowsPerSec := float64(rows) / ingestDur.Seconds()
	fmt.Printf("rows=%d groups=%d agg=%s mem=%dMiB\n", rows, groups, aggName, memBudgetMB)
	fmt.Printf("ingest:   %s (%.3g rows/s)\n", ingestDur, rowsPerSec)
	fmt.Printf("finalize: %s (%d groups)\n", finalizeDur, len(results))
}
