package scenario

import "fmt"

// Microservice is an immutable description of one replicated service: a
// name, the per-container CPU/memory demand, and the number of identical
// containers it is replicated into.
type Microservice struct {
	Name       string
	CPUReq     int // milli-CPU per container
	MemReq     int // MiB per container
	Containers int // replica count, always > 0
}

func (m Microservice) String() string {
	return fmt.Sprintf("microservice %q (%d containers): %d milli-CPU, %d MiB RAM",
		m.Name, m.Containers, m.CPUReq, m.MemReq)
}
