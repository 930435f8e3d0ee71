package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/whippet/ecs"
)

type Report struct {
	// Configuration
	Scenario Scenario
	Duration time.Duration

	// Results
	TotalFrames    int64
	TotalTime      time.Duration
	FrameTime      Stats
	Spawned        int
	Removed        int
	LayersWeeded   int
	Storage        ecs.UniverseStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Whippet Stress Report: {{.Scenario.Name}}

## Configuration
- **Run Duration:** {{.Duration}}
- **Entities:** {{.Scenario.Entities}}
- **Tags per Entity:** {{.Scenario.ComponentsPerEntity}}
- **Churn per Frame:** {{.Scenario.Churn}}
- **Layer Growth:** {{.Scenario.Pool.InitialLayerSize}} +{{.Scenario.Pool.LayerGrowth}} (max {{.Scenario.Pool.MaxLayerSize}})

## Performance
- **Total Frames:** {{.TotalFrames}}
- **Total Time:** {{.TotalTime}}
- **Frame Time:**
  - **Avg:** {{.FrameTime.Avg}}
  - **Min:** {{.FrameTime.Min}}
  - **Max:** {{.FrameTime.Max}}
- **Entities Spawned:** {{.Spawned}}
- **Entities Removed:** {{.Removed}}
- **Layers Weeded:** {{.LayersWeeded}}

## Storage
- Live Entities:  {{.Storage.EntityCount}}
- Components:     {{.Storage.ComponentCount}}
- Layers:         {{.Storage.LayerCount}}
- Slots:          {{.Storage.SlotCapacity}}
{{range .Storage.Providers}}
- {{.Type}}: {{.Components}}/{{.Capacity}} slots in {{.Layers}} layers ({{pct .Utilization}})
{{- end}}

## Memory Usage (MiB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end)
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end)
- Sys Memory:     {{mb .MemStatsStart.Sys}} (start) -> {{mb .MemStatsEnd.Sys}} (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{ns .MemStatsEnd.PauseTotalNs}}
- **Num GC Cycles:** {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{end}}`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"pct": func(f float64) string {
			return fmt.Sprintf("%.1f%%", f*100)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
