// Copyright 2026 Alexander Alten (novatechflow), NovaTechflow (novatechflow.com).
// This project is supported and financed by Scalytics, Inc. (www.scalytics.io).
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// kafquery-plan plans the splits a table scan over a topic would receive
// and prints them, one per line. It is a debugging tool for operators: the
// same planning code runs inside the connector, where the host engine
// supplies the predicate instead of the partition flag.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/novatechflow/kafquery/internal/config"
	"github.com/novatechflow/kafquery/pkg/cluster"
	"github.com/novatechflow/kafquery/pkg/metastore"
	"github.com/novatechflow/kafquery/pkg/split"
)

func main() {
	var (
		configPath   string
		topic        string
		partition    int
		timeoutSec   int
		serveMetrics bool
	)
	flag.StringVar(&configPath, "config", "config/config.yaml", "Path to connector config")
	flag.StringVar(&topic, "topic", "", "Topic to plan splits for")
	flag.IntVar(&partition, "partition", -1, "Restrict to one partition id (-1 for all)")
	flag.IntVar(&timeoutSec, "timeout", 30, "Planning timeout in seconds")
	flag.BoolVar(&serveMetrics, "serve-metrics", false, "Keep serving Prometheus metrics after planning")
	flag.Parse()

	if topic == "" {
		log.Fatalf("-topic is required")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveMetrics {
		startMetricsServer(ctx, cfg.Metrics.Listen, logger)
	}

	consumers := cluster.NewConsumerManager(kgo.ClientID(cfg.Broker.ClientID))
	defer consumers.Close()

	topology, err := cluster.NewTopology(consumers, cfg.Broker.Nodes)
	if err != nil {
		log.Fatalf("topology client: %v", err)
	}

	managerCfg := split.Config{
		FetchConcurrency: cfg.Planner.FetchConcurrency,
		Logger:           logger,
	}
	var (
		store   metastore.Client
		offsets split.BoundaryLister
	)
	if cfg.Metastore.Enabled {
		managerCfg.Strategy = split.StrategyMetastore
		etcdClient, err := metastore.NewEtcdClient(metastore.EtcdConfig{
			Endpoints:       cfg.Metastore.Endpoints,
			Username:        cfg.Metastore.Username,
			Password:        cfg.Metastore.Password,
			Namespace:       cfg.Metastore.Namespace,
			Index:           cfg.Metastore.Index,
			DialTimeout:     time.Duration(cfg.Metastore.DialTimeoutSeconds) * time.Second,
			RequestTimeout:  time.Duration(cfg.Metastore.RequestTimeoutSeconds) * time.Second,
			WindowCacheSize: cfg.Metastore.WindowCacheSize,
		})
		if err != nil {
			log.Fatalf("metastore client: %v", err)
		}
		defer etcdClient.Close()
		store = etcdClient
	} else {
		managerCfg.Strategy = split.StrategyLiveBroker
		offsets = cluster.NewBoundaries(consumers)
	}

	manager, err := split.NewManager(managerCfg, topology, offsets, store)
	if err != nil {
		log.Fatalf("split manager: %v", err)
	}

	planCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSec)*time.Second)
	defer cancel()

	columns, splits, err := manager.Plan(planCtx, topic, partitionPredicate(partition))
	if err != nil {
		log.Fatalf("plan %s: %v", topic, err)
	}

	for i, col := range columns {
		if i > 0 {
			fmt.Print("\t")
		}
		fmt.Print(col)
	}
	fmt.Print("\tleader\n")
	for _, s := range splits {
		r := s.Range
		fmt.Printf("%d\t%d\t%d\t%d\t%s\n", r.Partition, r.Start, r.End, r.Timestamp, r.Leader)
	}
	logger.Info("planned splits", "topic", topic, "strategy", managerCfg.Strategy.String(), "splits", len(splits))

	if serveMetrics {
		<-ctx.Done()
	}
}

func partitionPredicate(partition int) split.Predicate {
	if partition < 0 {
		return nil
	}
	want := int64(partition)
	return split.PredicateFunc(func(values map[split.Column]split.NullableValue) bool {
		v := values[split.ColumnPartitionID]
		return !v.Null && v.Int64 == want
	})
}

func startMetricsServer(ctx context.Context, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
}
