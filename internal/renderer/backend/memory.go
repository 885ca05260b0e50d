package backend

import "sync"

// Memory is an in-memory Backend for tests: cells land in a grid that
// assertions can read back, and events are fed through a channel.
type Memory struct {
	mu            sync.Mutex
	width, height int
	cells         [][]Cell
	shown         int
	events        chan Event
}

// NewMemory creates a memory backend with fixed dimensions.
func NewMemory(width, height int) *Memory {
	return &Memory{
		width:  width,
		height: height,
		events: make(chan Event, 64),
	}
}

func (m *Memory) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allocate()
	return nil
}

func (m *Memory) allocate() {
	m.cells = make([][]Cell, m.height)
	for y := range m.cells {
		m.cells[y] = make([]Cell, m.width)
		for x := range m.cells[y] {
			m.cells[y][x] = Cell{Rune: ' '}
		}
	}
}

func (m *Memory) Shutdown() {}

func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

func (m *Memory) SetCell(x, y int, c Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if y < 0 || y >= m.height || x < 0 || x >= m.width {
		return
	}
	m.cells[y][x] = c
}

func (m *Memory) Fill(x, y, w, h int, c Cell) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			m.SetCell(col, row, c)
		}
	}
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allocate()
}

func (m *Memory) Show() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown++
}

func (m *Memory) HideCursor() {}

func (m *Memory) PollEvent() Event {
	return <-m.events
}

func (m *Memory) PostEvent(ev Event) {
	m.events <- ev
}

// CellAt returns the cell at the given position for assertions.
func (m *Memory) CellAt(x, y int) Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	if y < 0 || y >= m.height || x < 0 || x >= m.width {
		return Cell{}
	}
	return m.cells[y][x]
}

// Line returns the runes of a row as a string.
func (m *Memory) Line(y int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if y < 0 || y >= m.height {
		return ""
	}
	runes := make([]rune, m.width)
	for x, c := range m.cells[y] {
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		runes[x] = r
	}
	return string(runes)
}

// ShowCount reports how many times Show has flushed.
func (m *Memory) ShowCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}
