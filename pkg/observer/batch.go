package observer

// Begin opens a batch for a mutating operation. When ev is nil the caller is
// the outermost operation: Begin creates the event and the returned func
// sends it through p. When ev is non-nil the caller joins an enclosing
// batch and the returned func does nothing. Nested mutators therefore
// produce one delivery:
//
//	func (l *List) ExtendWith(ev *observer.Event, items ...T) {
//		ev, done := observer.Begin(l.pub, ev)
//		defer done()
//		...
//	}
func Begin(p *Publisher, ev *Event) (*Event, func()) {
	if ev != nil {
		return ev, func() {}
	}
	ev = &Event{}
	return ev, func() {
		ev.Send(p)
	}
}
