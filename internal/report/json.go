package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arnegilmore/microplace/internal/placement"
	"github.com/arnegilmore/microplace/internal/scenario"
)

// JSONReporter outputs a placement as machine-readable JSON — a documented
// addition beyond the original solution.py format (spec §6), additive
// rather than a replacement for the text renderer.
type JSONReporter struct {
	w io.Writer
}

type jsonNode struct {
	Node          string      `json:"node"`
	Microservices []jsonEntry `json:"microservices"`
	CPUUsed       int         `json:"cpu_used"`
	CPULimit      int         `json:"cpu_limit"`
	MemUsed       int         `json:"mem_used"`
	MemLimit      int         `json:"mem_limit"`
	Containers    int         `json:"containers"`
	ContainerLim  int         `json:"container_limit"`
}

type jsonEntry struct {
	Microservice string `json:"microservice"`
	Count        int    `json:"count"`
}

type jsonOutput struct {
	TotalCost float64    `json:"total_cost"`
	Nodes     []jsonNode `json:"nodes"`
}

func (r *JSONReporter) Report(s *scenario.Scenario, mp *placement.Mapping, cost float64) error {
	pruned := mp.PrunedByNode()

	output := jsonOutput{TotalCost: cost}
	for j, node := range s.Nodes {
		entries, ok := pruned[j]
		if !ok {
			continue
		}

		jn := jsonNode{Node: node.Name}
		for _, e := range entries {
			jn.Microservices = append(jn.Microservices, jsonEntry{
				Microservice: s.Microservices[e.MicroserviceIndex].Name,
				Count:        e.Count,
			})
		}
		jn.CPUUsed, jn.MemUsed, jn.Containers = mp.NodeUsage(s, j)
		jn.CPULimit, jn.MemLimit, jn.ContainerLim = node.CPULim, node.MemLim, node.ContLim

		output.Nodes = append(output.Nodes, jn)
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
