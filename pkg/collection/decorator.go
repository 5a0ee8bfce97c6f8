package collection

import (
	"github.com/manifold/taskcoach/pkg/observer"
)

// Hooks customize how a Decorator reacts to its observed collection. Any
// nil hook falls back to the default: OnAddItem mirrors additions with
// ExtendSelf and OnRemoveItem mirrors removals with RemoveItemsFromSelf.
type Hooks[T comparable] struct {
	OnAddItem    func(d *Decorator[T], ev *observer.Event, items []T)
	OnRemoveItem func(d *Decorator[T], ev *observer.Event, items []T)
	// OnThaw runs when the last Freeze is undone.
	OnThaw func(d *Decorator[T])
}

// Freezer is implemented by collections that can defer expensive updates.
type Freezer interface {
	Freeze()
	Thaw()
	IsFrozen() bool
}

type store[T comparable] interface {
	Observable[T]
	Bind(source interface{})
}

// Decorator is a derived view of another observable collection: it keeps
// its own items, seeded from the observed collection and kept in sync with
// it through the observed collection's add and remove events. Mutating a
// decorator mutates the observed collection.
type Decorator[T comparable] struct {
	*observer.Registrations

	self     store[T]
	observed Observable[T]
	hooks    Hooks[T]
	frozen   int
}

// NewListDecorator decorates observed with list storage. The decorator's
// own events are "<namespace>.add" and "<namespace>.remove".
func NewListDecorator[T comparable](observed Observable[T], namespace string, hooks Hooks[T]) *Decorator[T] {
	return newDecorator[T](observed, NewObservableList[T](observed.Publisher(), namespace), hooks)
}

// NewSetDecorator decorates observed with set storage.
func NewSetDecorator[T comparable](observed Observable[T], namespace string, hooks Hooks[T]) *Decorator[T] {
	return newDecorator[T](observed, NewObservableSet[T](observed.Publisher(), namespace), hooks)
}

func newDecorator[T comparable](observed Observable[T], self store[T], hooks Hooks[T]) *Decorator[T] {
	d := &Decorator[T]{
		self:     self,
		observed: observed,
		hooks:    hooks,
	}
	d.Registrations = observer.NewRegistrations(d, observed.Publisher(), nil)
	self.Bind(d)

	d.RegisterObserver("onAddItem", d.onAddItem, observed.AddItemEventType(), observed.Source())
	d.RegisterObserver("onRemoveItem", d.onRemoveItem, observed.RemoveItemEventType(), observed.Source())

	if items := observed.Items(); len(items) > 0 {
		seed := observer.NewEvent(observed.AddItemEventType(), observed.Source(), toValues(items)...)
		d.addItems(seed, items)
	}
	return d
}

func (d *Decorator[T]) onAddItem(ev *observer.Event) {
	d.addItems(ev, ValuesOf[T](ev, d.observed.AddItemEventType(), d.observed.Source()))
}

func (d *Decorator[T]) onRemoveItem(ev *observer.Event) {
	items := ValuesOf[T](ev, d.observed.RemoveItemEventType(), d.observed.Source())
	if d.hooks.OnRemoveItem != nil {
		d.hooks.OnRemoveItem(d, ev, items)
		return
	}
	d.RemoveItemsFromSelf(nil, items...)
}

func (d *Decorator[T]) addItems(ev *observer.Event, items []T) {
	if d.hooks.OnAddItem != nil {
		d.hooks.OnAddItem(d, ev, items)
		return
	}
	d.ExtendSelf(nil, items...)
}

// Bind makes source the origin of the decorator's events.
func (d *Decorator[T]) Bind(source interface{}) {
	d.self.Bind(source)
}

// ExtendSelf adds items to the decorator's own storage only.
func (d *Decorator[T]) ExtendSelf(ev *observer.Event, items ...T) {
	d.self.ExtendWith(ev, items...)
}

// RemoveItemsFromSelf removes items from the decorator's own storage only.
// Items the decorator does not hold are ignored.
func (d *Decorator[T]) RemoveItemsFromSelf(ev *observer.Event, items ...T) {
	var present []T
	for _, item := range items {
		if d.self.Contains(item) {
			present = append(present, item)
		}
	}
	d.self.RemoveItemsWith(ev, present...)
}

// Observed returns the decorated collection, or with recursive set the
// innermost collection of a decorator chain.
func (d *Decorator[T]) Observed(recursive bool) Observable[T] {
	if inner, ok := d.observed.(interface{ Observed(bool) Observable[T] }); ok && recursive {
		return inner.Observed(true)
	}
	return d.observed
}

func (d *Decorator[T]) Items() []T           { return d.self.Items() }
func (d *Decorator[T]) Len() int             { return d.self.Len() }
func (d *Decorator[T]) Contains(item T) bool { return d.self.Contains(item) }

func (d *Decorator[T]) Publisher() *observer.Publisher { return d.self.Publisher() }
func (d *Decorator[T]) Source() interface{}            { return d.self.Source() }

func (d *Decorator[T]) AddItemEventType() observer.EventType    { return d.self.AddItemEventType() }
func (d *Decorator[T]) RemoveItemEventType() observer.EventType { return d.self.RemoveItemEventType() }

func (d *Decorator[T]) ModificationEventTypes() []observer.EventType {
	return d.self.ModificationEventTypes()
}

func (d *Decorator[T]) Append(item T) { d.AppendWith(nil, item) }

func (d *Decorator[T]) AppendWith(ev *observer.Event, item T) {
	d.observed.AppendWith(ev, item)
}

func (d *Decorator[T]) Extend(items ...T) { d.ExtendWith(nil, items...) }

func (d *Decorator[T]) ExtendWith(ev *observer.Event, items ...T) {
	d.observed.ExtendWith(ev, items...)
}

func (d *Decorator[T]) Remove(item T) error { return d.RemoveWith(nil, item) }

func (d *Decorator[T]) RemoveWith(ev *observer.Event, item T) error {
	return d.observed.RemoveWith(ev, item)
}

func (d *Decorator[T]) RemoveItems(items ...T) error { return d.RemoveItemsWith(nil, items...) }

func (d *Decorator[T]) RemoveItemsWith(ev *observer.Event, items ...T) error {
	return d.observed.RemoveItemsWith(ev, items...)
}

// Clear removes the decorator's items from the observed collection.
func (d *Decorator[T]) Clear() { d.ClearWith(nil) }

func (d *Decorator[T]) ClearWith(ev *observer.Event) {
	if items := d.self.Items(); len(items) > 0 {
		d.observed.RemoveItemsWith(ev, items...)
	}
}

// Freeze defers work in views built on the decorator until the matching
// Thaw. Freezing propagates down a chain of decorators.
func (d *Decorator[T]) Freeze() {
	if f, ok := d.observed.(Freezer); ok {
		f.Freeze()
	}
	d.frozen++
}

func (d *Decorator[T]) Thaw() {
	if d.frozen == 0 {
		return
	}
	d.frozen--
	if f, ok := d.observed.(Freezer); ok {
		f.Thaw()
	}
	if d.frozen == 0 && d.hooks.OnThaw != nil {
		d.hooks.OnThaw(d)
	}
}

func (d *Decorator[T]) IsFrozen() bool {
	return d.frozen > 0
}

// Detach stops mirroring the observed collection and detaches it in turn.
func (d *Decorator[T]) Detach() {
	d.RemoveInstance()
	d.observed.Detach()
}
