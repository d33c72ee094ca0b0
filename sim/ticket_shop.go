package sim

// TicketLine is one ticket counter: a bounded FIFO queue of persons plus the
// handle of the purchase currently being served, if any.
type TicketLine struct {
	Index    int
	capacity int
	queue    []*Person
	inFlight *PurchaseCompleteEvent // non-nil iff a purchase is pending for this line
}

// Front returns the person being (or about to be) served. Returns nil if empty.
func (tl *TicketLine) Front() *Person {
	if len(tl.queue) == 0 {
		return nil
	}
	return tl.queue[0]
}

func (tl *TicketLine) Len() int       { return len(tl.queue) }
func (tl *TicketLine) IsFull() bool   { return len(tl.queue) >= tl.capacity }
func (tl *TicketLine) InFlight() bool { return tl.inFlight != nil }

// Items returns the line contents front to back.
// The returned slice is internal storage: callers MUST NOT modify it.
func (tl *TicketLine) Items() []*Person {
	return tl.queue
}

func (tl *TicketLine) dequeue() *Person {
	if len(tl.queue) == 0 {
		return nil
	}
	p := tl.queue[0]
	tl.queue[0] = nil
	tl.queue = tl.queue[1:]
	return p
}

// TicketShop holds a fixed number of parallel ticket lines. Lines progress
// independently; each serves at most one purchase at a time.
type TicketShop struct {
	lines            []*TicketLine
	purchaseDuration int64 // ticks
}

// NewTicketShop creates lineCount empty lines of the given capacity.
// purchaseDuration is expressed in ticks.
func NewTicketShop(lineCount, capacity int, purchaseDuration int64) *TicketShop {
	ts := &TicketShop{
		lines:            make([]*TicketLine, lineCount),
		purchaseDuration: purchaseDuration,
	}
	for i := range ts.lines {
		ts.lines[i] = &TicketLine{
			Index:    i,
			capacity: capacity,
			queue:    make([]*Person, 0, capacity),
		}
	}
	return ts
}

// Push places p in the first line (by index) with room left and reports
// whether a line accepted it. Placement is first-fit, not load-balanced.
func (ts *TicketShop) Push(p *Person) bool {
	if p == nil {
		panic("TicketShop.Push: person must not be nil")
	}
	for _, line := range ts.lines {
		if !line.IsFull() {
			line.queue = append(line.queue, p)
			return true
		}
	}
	return false
}

// StartPurchase begins serving the front person of line i, returning the
// completion event the caller must schedule. It returns nil when the line is
// empty or already has a purchase in flight. The completed purchase hands the
// person back to crowd.
func (ts *TicketShop) StartPurchase(i int, now int64, crowd *Crowd) *PurchaseCompleteEvent {
	line := ts.lines[i]
	if line.Len() == 0 || line.inFlight != nil {
		return nil
	}
	ev := &PurchaseCompleteEvent{
		time:    now + ts.purchaseDuration,
		started: now,
		Line:    line,
		Person:  line.Front(),
		Crowd:   crowd,
	}
	line.inFlight = ev
	return ev
}

// completePurchase applies a finished purchase: the served person gets a
// ticket, leaves the front of its line and rejoins the crowd.
func (ts *TicketShop) completePurchase(ev *PurchaseCompleteEvent) {
	line := ev.Line
	if line.inFlight != ev {
		panic("completePurchase: event is not the in-flight purchase of its line")
	}
	ev.Person.Ticketed = true
	if served := line.dequeue(); served != ev.Person {
		panic("completePurchase: served person is not at the front of the line")
	}
	line.inFlight = nil
	ev.Crowd.Push(ev.Person)
}

// IsFull reports whether every line is at capacity.
func (ts *TicketShop) IsFull() bool {
	for _, line := range ts.lines {
		if !line.IsFull() {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no person is queued in any line.
func (ts *TicketShop) IsEmpty() bool {
	return ts.TotalSize() == 0
}

// TotalSize returns the number of persons across all lines.
func (ts *TicketShop) TotalSize() int {
	n := 0
	for _, line := range ts.lines {
		n += line.Len()
	}
	return n
}

// Lines returns the shop's lines in placement order.
func (ts *TicketShop) Lines() []*TicketLine {
	return ts.lines
}
