// Package kafka publishes storefront events and keeps
// the product block list in a goka group table.
package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"
	"github.com/lovoo/goka"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

// A Security holds broker connection credentials.
//
// Zero value means plaintext without authentication.
type Security struct {
	TLS  *tls.Config
	User string
	Pass string
}

func (s Security) kgoOpts() []kgo.Opt {
	var opts []kgo.Opt
	if s.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(s.TLS))
	}
	if s.User != "" {
		opts = append(opts, kgo.SASL(plain.Auth{User: s.User, Pass: s.Pass}.AsMechanism()))
	}
	return opts
}

// ApplyToGoka replaces goka global sarama config,
// so it must be called before any processor or view is created.
func (s Security) ApplyToGoka() {
	cfg := goka.DefaultConfig()
	if s.TLS != nil {
		cfg.Net.TLS.Enable = true
		cfg.Net.TLS.Config = s.TLS
	}
	if s.User != "" {
		cfg.Net.SASL.Enable = true
		cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		cfg.Net.SASL.User = s.User
		cfg.Net.SASL.Password = s.Pass
	}
	goka.ReplaceGlobalConfig(cfg)
}

// NewAdminOpts returns client options for admin tooling.
func NewAdminOpts(seedBrokers []string, sec Security) []kgo.Opt {
	return append([]kgo.Opt{kgo.SeedBrokers(seedBrokers...)}, sec.kgoOpts()...)
}

// gokaLogger forwards goka internals to slog at debug level.
type gokaLogger struct {
	log *slog.Logger
}

func newGokaLogger(component string) gokaLogger {
	return gokaLogger{slog.With("component", component)}
}

func (l gokaLogger) Printf(format string, v ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gokaLogger) Print(v ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprint(v...)))
}

func (l gokaLogger) Println(v ...any) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintln(v...)))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}
