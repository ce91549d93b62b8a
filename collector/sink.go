package collector

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"

	"github.com/anatolykoptev/go-tweetsift/jsonl"
)

// Sink receives accepted records in arrival order.
type Sink interface {
	Write(ctx context.Context, v any) error
	Close() error
}

// FileSink writes one JSON line per record to the run's output file.
type FileSink struct {
	w *jsonl.Writer
}

// OpenFileSink truncates or creates path.
func OpenFileSink(path string) (*FileSink, error) {
	w, err := jsonl.Create(path)
	if err != nil {
		return nil, err
	}
	return &FileSink{w: w}, nil
}

func (s *FileSink) Write(_ context.Context, v any) error { return s.w.Write(v) }

// Path returns the output file path.
func (s *FileSink) Path() string { return s.w.Path() }

// Count returns the number of lines written so far.
func (s *FileSink) Count() int { return s.w.Count() }

func (s *FileSink) Close() error { return s.w.Close() }

// publisher is the part of *nats.Conn the NATS sink uses.
type publisher interface {
	PublishMsg(m *nats.Msg) error
	Flush() error
}

// NATSSink publishes each record as JSON to a subject. Trace context from ctx
// is injected into the message headers. The connection stays owned by the
// caller; Close only flushes.
type NATSSink struct {
	pub     publisher
	subject string
}

// NewNATSSink publishes to subject over nc.
func NewNATSSink(nc *nats.Conn, subject string) *NATSSink {
	return &NATSSink{pub: nc, subject: subject}
}

func (s *NATSSink) Write(ctx context.Context, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &nats.Msg{
		Subject: s.subject,
		Data:    data,
	}
	otel.GetTextMapPropagator().Inject(ctx, (*natsHeaderCarrier)(msg))
	return s.pub.PublishMsg(msg)
}

func (s *NATSSink) Close() error { return s.pub.Flush() }

// natsHeaderCarrier adapts nats.Msg headers for OTel TextMapCarrier.
type natsHeaderCarrier nats.Msg

func (c *natsHeaderCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *natsHeaderCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *natsHeaderCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

type teeSink []Sink

// Tee writes every record to each sink in order, stopping at the first error.
func Tee(sinks ...Sink) Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return teeSink(sinks)
}

func (t teeSink) Write(ctx context.Context, v any) error {
	for _, s := range t {
		if err := s.Write(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (t teeSink) Close() error {
	var errs []error
	for _, s := range t {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}
