package observer

import (
	"errors"
	"reflect"
)

var (
	ErrUnboundObserver    = errors.New("observer: callback needs an owner and a func")
	ErrIncomparableOwner  = errors.New("observer: callback owner is not comparable")
	ErrIncomparableSource = errors.New("observer: event source is not comparable")
)

// Callback is an observer. Two callbacks are the same observer when they
// have the same Owner and Name, so a callback can be removed by rebuilding
// it from its owner.
type Callback struct {
	Owner interface{}
	Name  string
	Func  func(*Event)
}

// Bind builds a callback for a method-like func of owner.
func Bind(owner interface{}, name string, fn func(*Event)) Callback {
	return Callback{Owner: owner, Name: name, Func: fn}
}

// Handler is implemented by types that observe with a single method.
type Handler interface {
	HandleEvent(e *Event)
}

// HandlerCallback turns h into a callback named "HandleEvent".
func HandlerCallback(h Handler) Callback {
	return Callback{Owner: h, Name: "HandleEvent", Func: h.HandleEvent}
}

func (c Callback) validate() error {
	if c.Owner == nil || c.Func == nil {
		return ErrUnboundObserver
	}
	if !hashable(c.Owner) {
		return ErrIncomparableOwner
	}
	return nil
}

// Is reports whether c and other identify the same observer.
func (c Callback) Is(other Callback) bool {
	return c.Name == other.Name && sameValue(c.Owner, other.Owner)
}

func (c Callback) String() string {
	if c.Owner == nil {
		return c.Name
	}
	return reflect.TypeOf(c.Owner).String() + "." + c.Name
}
