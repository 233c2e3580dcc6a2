package report

import (
	"io"

	"github.com/arnegilmore/microplace/internal/placement"
	"github.com/arnegilmore/microplace/internal/scenario"
)

// TextReporter renders a placement the way model/solution.py's __str__
// does: total cost, then one block per used node listing its container
// counts per microservice and a utilization summary line.
type TextReporter struct {
	w io.Writer
}

func (r *TextReporter) Report(s *scenario.Scenario, mp *placement.Mapping, cost float64) error {
	ew := &errWriter{w: r.w}
	ew.printf("Total cost: %.2f\n", cost)

	pruned := mp.PrunedByNode()
	for j, node := range s.Nodes {
		entries, ok := pruned[j]
		if !ok {
			continue
		}

		ew.printf("\nNode %q:", node.Name)
		for _, e := range entries {
			ew.printf("\n  - %d containers of microservice %q", e.Count, s.Microservices[e.MicroserviceIndex].Name)
		}

		cpu, mem, cont := mp.NodeUsage(s, j)
		ew.printf("\n%d/%d vCPU, %d/%d MiB RAM, %d/%d containers\n", cpu, node.CPULim, mem, node.MemLim, cont, node.ContLim)
	}

	return ew.err
}
