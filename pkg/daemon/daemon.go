package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/manifold/taskcoach/pkg/misc/logging"
	"github.com/thejerf/suture/v4"
)

// Initializer is initialized before services are started. Returning
// an error will cancel the start of daemon services.
type Initializer interface {
	InitializeDaemon() error
}

// Terminator is terminated when the daemon gets a stop signal.
type Terminator interface {
	TerminateDaemon() error
}

// Service is run after the daemon is initialized. A service that panics
// is restarted; one that returns is done.
type Service interface {
	Serve(ctx context.Context)
}

// Daemon is a top-level daemon lifecycle manager runs services given to it.
type Daemon struct {
	Initializers []Initializer
	Services     []Service
	Terminators  []Terminator
	Log          logging.Logger
	Context      context.Context
	state        int32
	cancel       context.CancelFunc
	errs         chan []error
}

// New builds a daemon from components. Each is added to Initializers,
// Services and Terminators by the interfaces it implements, in the order
// given.
func New(components ...interface{}) *Daemon {
	d := &Daemon{}
	for _, c := range components {
		if i, ok := c.(Initializer); ok {
			d.Initializers = append(d.Initializers, i)
		}
		if s, ok := c.(Service); ok {
			d.Services = append(d.Services, s)
		}
		if t, ok := c.(Terminator); ok {
			d.Terminators = append(d.Terminators, t)
		}
	}
	return d
}

// Run creates a daemon from components and runs it with a background context
func Run(components ...interface{}) error {
	d := New(components...)
	return d.Run(context.Background())
}

// Run executes the daemon lifecycle
func (d *Daemon) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&d.state, 0, 1) {
		return errors.New("already running")
	}

	// call initializers
	for _, i := range d.Initializers {
		if err := i.InitializeDaemon(); err != nil {
			atomic.StoreInt32(&d.state, 0)
			return err
		}
	}

	// finish if no services
	if len(d.Services) == 0 {
		atomic.StoreInt32(&d.state, 0)
		return errors.New("no services to run")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancelFunc := context.WithCancel(ctx)
	d.Context = ctx
	d.cancel = cancelFunc
	d.errs = make(chan []error)

	// setup terminators on stop signals
	go TerminateOnSignal(d)
	go TerminateOnContextDone(d)

	// the supervisor outlives the daemon context so services still start
	// and see it canceled
	supCtx, stopSupervisor := context.WithCancel(context.Background())
	sup := suture.New("daemon", suture.Spec{
		EventHook: func(e suture.Event) {
			logging.Info(d.Log, "daemon:", e)
		},
	})
	var wg sync.WaitGroup
	for _, service := range d.Services {
		wg.Add(1)
		sup.Add(&supervised{Service: service, ctx: d.Context, wg: &wg})
	}
	stopped := sup.ServeBackground(supCtx)

	wg.Wait()
	d.cancel()
	errs := <-d.errs
	stopSupervisor()
	<-stopped
	return errors.Join(errs...)
}

// Terminate cancels the daemon context and calls Terminators in reverse order
func (d *Daemon) Terminate() {
	if d == nil {
		return
	}

	if !atomic.CompareAndSwapInt32(&d.state, 1, 0) {
		return
	}

	if d.cancel != nil {
		d.cancel()
	}
	var errs []error
	for i := len(d.Terminators) - 1; i >= 0; i-- {
		if err := d.Terminators[i].TerminateDaemon(); err != nil {
			logging.Error(d.Log, "daemon: terminating:", err)
			errs = append(errs, err)
		}
	}
	d.errs <- errs
}

// TerminateOnSignal waits for SIGINT or SIGHUP to terminate the daemon.
func TerminateOnSignal(d *Daemon) {
	termSigs := make(chan os.Signal, 1)
	signal.Notify(termSigs, os.Interrupt, syscall.SIGHUP)
	defer signal.Stop(termSigs)
	select {
	case <-termSigs:
		d.Terminate()
	case <-d.Context.Done():
	}
}

// TerminateOnContextDone waits for the deamon's context to be canceled.
func TerminateOnContextDone(d *Daemon) {
	<-d.Context.Done()
	d.Terminate()
}

// supervised adapts a Service to suture. Returning ends the service for
// good; a panic is recovered by suture, which serves it again.
type supervised struct {
	Service
	ctx  context.Context
	wg   *sync.WaitGroup
	once sync.Once
}

func (s *supervised) Serve(context.Context) error {
	s.Service.Serve(s.ctx)
	s.once.Do(s.wg.Done)
	return suture.ErrDoNotRestart
}

func (s *supervised) String() string {
	return fmt.Sprintf("%T", s.Service)
}
