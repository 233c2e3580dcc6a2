package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/arnegilmore/microplace/internal/errs"
)

// rawMicroservice and rawNode mirror the YAML schema in SPEC_FULL.md §6.1
// before it is turned into the immutable, index-ordered Scenario.
type rawMicroservice struct {
	CPUReq     int `yaml:"cpureq"`
	MemReq     int `yaml:"memreq"`
	Containers int `yaml:"containers"`
}

type rawNode struct {
	Cost         float64 `yaml:"cost"`
	CPULim       int     `yaml:"cpulim"`
	MemLim       int     `yaml:"memlim"`
	ContLim      int     `yaml:"contlim"`
	Zone         string  `yaml:"zone"`
	InstanceType string  `yaml:"instance_type"`
	Region       string  `yaml:"region"`
}

type rawDataCost struct {
	Intrazone float64 `yaml:"intrazone"`
	Interzone float64 `yaml:"interzone"`
}

type rawScenario struct {
	Microservices map[string]rawMicroservice    `yaml:"microservices"`
	Nodes         map[string]rawNode             `yaml:"nodes"`
	DataRate      map[string]map[string]float64  `yaml:"datarate"`
	DataCost      rawDataCost                    `yaml:"data_cost"`
}

// Load reads and parses a scenario YAML file into an immutable Scenario.
// Microservice and node names are sorted for a deterministic index
// ordering (the YAML mapping itself has no order); this is the sole place
// index assignment happens; everything downstream refers to positions.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewConfigError("scenario", fmt.Sprintf("reading %s: %v", path, err))
	}
	return Parse(data)
}

// Parse decodes scenario YAML bytes into a Scenario, independent of any
// filesystem access (used directly by tests).
func Parse(data []byte) (*Scenario, error) {
	var raw rawScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errs.NewConfigError("scenario", fmt.Sprintf("parsing YAML: %v", err))
	}
	if len(raw.Microservices) == 0 {
		return nil, errs.NewConfigError("scenario.microservices", "must declare at least one microservice")
	}
	if len(raw.Nodes) == 0 {
		return nil, errs.NewConfigError("scenario.nodes", "must declare at least one node")
	}

	mNames := make([]string, 0, len(raw.Microservices))
	for name := range raw.Microservices {
		mNames = append(mNames, name)
	}
	sort.Strings(mNames)

	nNames := make([]string, 0, len(raw.Nodes))
	for name := range raw.Nodes {
		nNames = append(nNames, name)
	}
	sort.Strings(nNames)

	micros := make([]Microservice, 0, len(mNames))
	for _, name := range mNames {
		rm := raw.Microservices[name]
		if rm.Containers <= 0 {
			return nil, errs.NewConfigError("microservices."+name+".containers", "must be positive")
		}
		micros = append(micros, Microservice{
			Name:       name,
			CPUReq:     rm.CPUReq,
			MemReq:     rm.MemReq,
			Containers: rm.Containers,
		})
	}

	nodes := make([]Node, 0, len(nNames))
	for _, name := range nNames {
		rn := raw.Nodes[name]
		nodes = append(nodes, Node{
			Name:         name,
			Cost:         rn.Cost,
			CPULim:       rn.CPULim,
			MemLim:       rn.MemLim,
			ContLim:      rn.ContLim,
			Zone:         rn.Zone,
			InstanceType: rn.InstanceType,
			Region:       rn.Region,
		})
	}

	return &Scenario{
		Microservices: micros,
		Nodes:         nodes,
		DataRate:      raw.DataRate,
		IntrazoneCost: raw.DataCost.Intrazone,
		InterzoneCost: raw.DataCost.Interzone,
	}, nil
}
