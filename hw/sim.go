package hw

// WriteOp records one register write observed by a SimBus.
type WriteOp struct {
	Reg   Reg
	Value byte
}

// SimBus is an in-memory register file for tests and the demo tooling.
// Reads return the last written value unless a read queue is stubbed for
// the register; writes are recorded in order.
type SimBus struct {
	mem     map[Reg]byte
	queues  map[Reg][]byte
	writes  []WriteOp
	onWrite func(Reg, byte)
}

// NewSim returns an empty simulated bus. All registers read as zero
// until written or stubbed.
func NewSim() *SimBus {
	return &SimBus{
		mem:    make(map[Reg]byte),
		queues: make(map[Reg][]byte),
	}
}

// Stub queues read values for a register. Successive reads consume the
// queue; the final value sticks once the queue is drained.
func (s *SimBus) Stub(reg Reg, values ...byte) {
	s.queues[reg] = append(s.queues[reg], values...)
}

// OnWrite installs a hook invoked after every write, so tests can model
// hardware that reacts to register writes.
func (s *SimBus) OnWrite(hook func(Reg, byte)) {
	s.onWrite = hook
}

// Read8 implements Bus.
func (s *SimBus) Read8(reg Reg) byte {
	if queue := s.queues[reg]; len(queue) > 0 {
		value := queue[0]
		if len(queue) > 1 {
			s.queues[reg] = queue[1:]
		} else {
			// Last stubbed value sticks.
			s.mem[reg] = value
			delete(s.queues, reg)
		}
		return value
	}
	return s.mem[reg]
}

// Write8 implements Bus.
func (s *SimBus) Write8(reg Reg, value byte) {
	s.mem[reg] = value
	s.writes = append(s.writes, WriteOp{Reg: reg, Value: value})
	if s.onWrite != nil {
		s.onWrite(reg, value)
	}
}

// Writes returns the recorded write log in order.
func (s *SimBus) Writes() []WriteOp {
	return s.writes
}

// WritesTo returns only the values written to one register, in order.
func (s *SimBus) WritesTo(reg Reg) []byte {
	var values []byte
	for _, op := range s.writes {
		if op.Reg == reg {
			values = append(values, op.Value)
		}
	}
	return values
}
