package datamodel

import "sync"

// MemoryHandle is an in-process host. It backs the simulated host used by the
// preview server and lets tests observe exactly what content wrote.
type MemoryHandle struct {
	mu sync.Mutex

	values      map[string]string
	writes      []string // element names in write order
	commits     int
	initialized bool
	terminated  bool
	lastCode    int
	lastMsg     string

	// FailSet and FailCommit make the corresponding calls return false.
	FailSet    map[string]bool
	FailCommit bool
}

func NewMemoryHandle() *MemoryHandle {
	return &MemoryHandle{values: map[string]string{}}
}

func (m *MemoryHandle) Initialize() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		m.setErr(103, "already initialized")
		return false
	}
	m.initialized = true
	m.setErr(0, "")
	return true
}

func (m *MemoryHandle) Terminate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized || m.terminated {
		m.setErr(112, "termination before initialization or after termination")
		return false
	}
	m.terminated = true
	m.setErr(0, "")
	return true
}

func (m *MemoryHandle) GetValue(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[name]
	return v, ok
}

func (m *MemoryHandle) SetValue(name, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet[name] {
		m.setErr(351, "general set failure")
		return false
	}
	m.values[name] = value
	m.writes = append(m.writes, name)
	m.setErr(0, "")
	return true
}

func (m *MemoryHandle) Commit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCommit {
		m.setErr(391, "general commit failure")
		return false
	}
	m.commits++
	m.setErr(0, "")
	return true
}

func (m *MemoryHandle) LastError() (int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCode, m.lastMsg
}

// Values returns a copy of every element written so far.
func (m *MemoryHandle) Values() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Writes returns element names in the order they were set.
func (m *MemoryHandle) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

func (m *MemoryHandle) Commits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.commits
}

func (m *MemoryHandle) Terminated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.terminated
}

func (m *MemoryHandle) setErr(code int, msg string) {
	m.lastCode, m.lastMsg = code, msg
}
