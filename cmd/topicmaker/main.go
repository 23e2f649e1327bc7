package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
)

const (
	partitions        = 3
	replicationFactor = 3
	delete            = "delete"
	compact           = "compact"
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	if !cfg.Broker.Enabled() {
		printFail(errors.New("broker.seed_brokers is empty"))
		return
	}

	cl, err := createClient(cfg)
	if err != nil {
		printFail(err)
		return
	}
	defer cl.Close()

	regular, tables := topicsOf(cfg)
	printStart(append(regular, tables...))
	defer printComplete(time.Now())

	if err := makeTopics(sigCtx, cl, delete, regular...); err != nil {
		printFail(err)
		return
	}

	if err := makeTopics(sigCtx, cl, compact, tables...); err != nil {
		printFail(err)
		return
	}
}

// topicsOf returns event topics and compacted group table topics.
func topicsOf(cfg config.Config) (regular, tables []string) {
	regular = []string{
		cfg.Broker.Topics.Orders,
		cfg.Broker.Topics.FilterProductStream,
	}
	tables = []string{
		toGroupTable(cfg.Broker.Consumers.ProductBlockerGroup),
	}
	return regular, tables
}

func createClient(cfg config.Config) (*kadm.Client, error) {
	b := cfg.Broker
	sec := kafka.Security{User: b.User, Pass: b.Pass}
	if b.TLS.Enabled() {
		tlsConfig, err := adapter.MakeTLSConfig(b.TLS.CA, b.TLS.Cert, b.TLS.Key)
		if err != nil {
			return nil, err
		}
		sec.TLS = tlsConfig
	}

	cl, err := kadm.NewOptClient(kafka.NewAdminOpts(b.SeedBrokers, sec)...)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl, nil
}

func makeTopics(
	ctx context.Context, cl *kadm.Client, cleanupPolicy string, topics ...string,
) error {
	var (
		minISR = "1"
	)

	config := map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &minISR,
	}

	responses, err := cl.CreateTopics(
		ctx,
		partitions,
		replicationFactor,
		config,
		topics...,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		if res.Err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
			} else {
				errs = append(errs, res.Err)
			}
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}

	return errors.Join(errs...)
}

func printStart(topics []string) {
	fmt.Printf("initializing topics...\n\t- %s\n\n", strings.Join(topics, "\n\t- "))
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}

func toGroupTable(group string) string {
	return string(goka.GroupTable(goka.Group(group)))
}
