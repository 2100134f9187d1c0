package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/plus3/flexscene/ecs"
)

// Timings accumulates per-frame durations.
type Timings struct {
	samples []time.Duration
}

func (t *Timings) Add(d time.Duration) { t.samples = append(t.samples, d) }

func (t *Timings) Len() int { return len(t.samples) }

// Summary condenses a set of durations.
type Summary struct {
	Min, Max, Avg, P99 time.Duration
}

// Summarize returns the zero Summary when nothing was recorded.
func (t *Timings) Summarize() Summary {
	if len(t.samples) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(t.samples)
	slices.Sort(sorted)

	var total time.Duration
	for _, d := range sorted {
		total += d
	}
	return Summary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: total / time.Duration(len(sorted)),
		P99: sorted[(len(sorted)-1)*99/100],
	}
}

// Report is everything printed at the end of a run.
type Report struct {
	Config     Config
	Components int
	Systems    int

	Frames    int
	Elapsed   time.Duration
	Update    Summary
	Churn     Summary
	Destroyed int
	Expired   int
	Store     ecs.StorageStats
	MemBefore runtime.MemStats
	MemAfter  runtime.MemStats
}

const reportTemplate = `# ECS stress report

## Run
- duration: {{.Config.Duration}}, seed {{.Config.Seed}}
- {{.Config.Entities}} initial entities over {{.Components}} component types, {{.Systems}} systems
- {{.Config.Churn}} structural changes per frame
- compaction: {{with .Config.CompactEvery}}every {{.}} frames{{else}}off{{end}}

## Frames
{{.Frames}} frames in {{.Elapsed}}
| phase  | avg | min | max | p99 |
|--------|-----|-----|-----|-----|
| update | {{.Update.Avg}} | {{.Update.Min}} | {{.Update.Max}} | {{.Update.P99}} |
| churn  | {{.Churn.Avg}} | {{.Churn.Min}} | {{.Churn.Max}} | {{.Churn.P99}} |

## Store
- live: {{.Store.TotalEntityCount}}, free ids: {{.Store.InactiveEntityCount}}
- archetypes: {{.Store.ArchetypeCount}}, tombstones: {{.Store.TombstoneCount}}
- destroyed by churn: {{.Destroyed}}, expired: {{.Expired}}
{{range .Store.ArchetypeBreakdown}}  - {{.Layout}} {{.ComponentTypes}}: {{.EntityCount}} live, {{.Tombstones}} tombstones, {{mib .Bytes}} MiB ({{mib .PackedBytes}} MiB packed)
{{end}}
## Memory
- heap: {{mib .MemBefore.HeapAlloc}} -> {{mib .MemAfter.HeapAlloc}} MiB
- allocated during run: {{mib (sub .MemAfter.TotalAlloc .MemBefore.TotalAlloc)}} MiB
- GC cycles: {{sub .MemAfter.NumGC .MemBefore.NumGC}}
{{- if .Config.GCPauses}}
- GC pause total: {{pause .MemBefore.PauseTotalNs .MemAfter.PauseTotalNs}}
{{- end}}
`

var reportFuncs = template.FuncMap{
	"mib": func(v any) string {
		var b float64
		switch n := v.(type) {
		case uint64:
			b = float64(n)
		case uintptr:
			b = float64(n)
		case int64:
			b = float64(n)
		default:
			return "?"
		}
		return fmt.Sprintf("%.2f", b/(1<<20))
	},
	"sub": func(after, before any) int64 {
		return toInt64(after) - toInt64(before)
	},
	"pause": func(before, after uint64) time.Duration {
		return time.Duration(after - before)
	},
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case uint64:
		return int64(n)
	case uint32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

var reportTmpl = template.Must(template.New("report").Funcs(reportFuncs).Parse(reportTemplate))

// Generate writes the report as markdown.
func (r *Report) Generate(w io.Writer) error {
	return reportTmpl.Execute(w, r)
}
