package console

import (
	"context"
	"io"
	"os"

	"github.com/manifold/taskcoach/pkg/logging/zap"
	"github.com/manifold/taskcoach/pkg/misc/logging"
)

// Output lets you redirect the output the console is set up with.
var Output io.Writer = os.Stdout

// Service is a daemon service that owns the console. Its Logger writes
// through the console so log lines and journal lines share one stream.
type Service struct {
	logging.Logger

	Lines *LineWriter

	logreader io.ReadCloser
	logwriter io.WriteCloser
}

func New(debug bool) *Service {
	s := &Service{
		Lines: &LineWriter{Output: Output, Padding: 14, Color: Output == os.Stdout},
	}
	s.logreader, s.logwriter = io.Pipe()
	s.Logger = zap.NewWriterLogger(s.logwriter, debug)
	go s.Lines.LineReader("taskcoach", s.logreader, false)
	return s
}

func (s *Service) Serve(ctx context.Context) {
	<-ctx.Done()
}

func (s *Service) TerminateDaemon() error {
	err := s.logwriter.Close()
	s.Lines.Wait()
	return err
}
