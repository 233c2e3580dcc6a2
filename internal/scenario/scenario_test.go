package scenario

import "testing"

func TestMicroserviceOf(t *testing.T) {
	s := &Scenario{
		Microservices: []Microservice{
			{Name: "a", Containers: 2},
			{Name: "b", Containers: 3},
			{Name: "c", Containers: 1},
		},
	}

	tests := []struct {
		container int
		want      int
	}{
		{0, 0}, {1, 0}, {2, 1}, {3, 1}, {4, 1}, {5, 2},
	}

	for _, tt := range tests {
		got, err := s.MicroserviceOf(tt.container)
		if err != nil {
			t.Fatalf("MicroserviceOf(%d): unexpected error: %v", tt.container, err)
		}
		if got != tt.want {
			t.Errorf("MicroserviceOf(%d) = %d, want %d", tt.container, got, tt.want)
		}
	}
}

func TestMicroserviceOfOutOfRange(t *testing.T) {
	s := &Scenario{Microservices: []Microservice{{Name: "a", Containers: 2}}}
	if _, err := s.MicroserviceOf(2); err == nil {
		t.Errorf("MicroserviceOf(2): expected an error for out-of-range container")
	}
}

func TestTotalContainers(t *testing.T) {
	s := &Scenario{Microservices: []Microservice{
		{Containers: 2}, {Containers: 5}, {Containers: 1},
	}}
	if got := s.TotalContainers(); got != 8 {
		t.Errorf("TotalContainers() = %d, want 8", got)
	}
}

func TestNodeDataCost(t *testing.T) {
	s := &Scenario{
		Nodes: []Node{
			{Name: "n1", Zone: "a"},
			{Name: "n2", Zone: "a"},
			{Name: "n3", Zone: "b"},
		},
		IntrazoneCost: 0.01,
		InterzoneCost: 0.02,
	}

	tests := []struct {
		j1, j2 int
		want   float64
	}{
		{0, 0, 0},
		{0, 1, 0.01},
		{1, 0, 0.01},
		{0, 2, 0.02},
		{2, 0, 0.02},
	}

	for _, tt := range tests {
		if got := s.NodeDataCost(tt.j1, tt.j2); got != tt.want {
			t.Errorf("NodeDataCost(%d, %d) = %v, want %v", tt.j1, tt.j2, got, tt.want)
		}
	}
}

func TestDataRateBetweenMissingIsZero(t *testing.T) {
	s := &Scenario{DataRate: map[string]map[string]float64{
		"a": {"b": 100},
	}}

	if got := s.DataRateBetween("a", "b"); got != 100 {
		t.Errorf("DataRateBetween(a, b) = %v, want 100", got)
	}
	if got := s.DataRateBetween("a", "c"); got != 0 {
		t.Errorf("DataRateBetween(a, c) = %v, want 0", got)
	}
	if got := s.DataRateBetween("z", "y"); got != 0 {
		t.Errorf("DataRateBetween(z, y) = %v, want 0", got)
	}
}

func TestNodeFitsAndPlace(t *testing.T) {
	n := Node{CPULim: 1000, MemLim: 512, ContLim: 2}
	m := Microservice{CPUReq: 400, MemReq: 200}
	var st NodeState

	if !n.Fits(&st, m) {
		t.Fatalf("expected first container to fit")
	}
	st.Place(m)

	if !n.Fits(&st, m) {
		t.Fatalf("expected second container to fit (800/1000 CPU, 400/512 mem, 2/2 cont)")
	}
	st.Place(m)

	if n.Fits(&st, m) {
		t.Errorf("expected third container to be rejected by container limit")
	}

	st.Reset()
	if st.CPU != 0 || st.Mem != 0 || st.Cont != 0 {
		t.Errorf("Reset() left nonzero totals: %+v", st)
	}
}

func TestParseScenario(t *testing.T) {
	yamlDoc := []byte(`
microservices:
  web: { cpureq: 250, memreq: 128, containers: 2 }
nodes:
  n1: { cost: 1.5, cpulim: 1000, memlim: 512, contlim: 4, zone: a }
datarate:
  web:
    web: 10
data_cost:
  intrazone: 0.01
  interzone: 0.02
`)
	s, err := Parse(yamlDoc)
	if err != nil {
		t.Fatalf("Parse: unexpected error: %v", err)
	}
	if len(s.Microservices) != 1 || s.Microservices[0].Name != "web" {
		t.Fatalf("unexpected microservices: %+v", s.Microservices)
	}
	if len(s.Nodes) != 1 || s.Nodes[0].Name != "n1" {
		t.Fatalf("unexpected nodes: %+v", s.Nodes)
	}
	if s.IntrazoneCost != 0.01 || s.InterzoneCost != 0.02 {
		t.Fatalf("unexpected data cost: %v/%v", s.IntrazoneCost, s.InterzoneCost)
	}
}

func TestParseScenarioRejectsEmpty(t *testing.T) {
	if _, err := Parse([]byte(`microservices: {}
nodes: {n1: {cost: 1, cpulim: 1, memlim: 1, contlim: 1, zone: a}}`)); err == nil {
		t.Errorf("expected a ConfigError for empty microservices")
	}
}
