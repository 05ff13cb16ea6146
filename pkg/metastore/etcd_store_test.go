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

package metastore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/server/v3/embed"
)

func TestEtcdClientWindowRoundTrip(t *testing.T) {
	e, endpoints := startEmbeddedEtcd(t)
	defer e.Close()

	store := newTestEtcdClient(t, endpoints)
	defer store.Close()

	ctx := context.Background()
	members := []Member{
		{Partition: 0, Start: 0, End: 50},
		{Partition: 1, Start: 0, End: 75},
	}
	if err := store.PutWindow(ctx, WindowKey("orders", 1000), members); err != nil {
		t.Fatalf("PutWindow: %v", err)
	}

	window, err := store.Window(ctx, "orders:1000")
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if window.Timestamp != 1000 {
		t.Fatalf("timestamp = %d, want 1000", window.Timestamp)
	}
	if len(window.Members) != 2 {
		t.Fatalf("got %d members, want 2", len(window.Members))
	}
	if window.Members[1] != (Member{Partition: 1, Start: 0, End: 75}) {
		t.Fatalf("member = %+v", window.Members[1])
	}
}

func TestEtcdClientWindowKeysOrderAndIsolation(t *testing.T) {
	e, endpoints := startEmbeddedEtcd(t)
	defer e.Close()

	store := newTestEtcdClient(t, endpoints)
	defer store.Close()

	ctx := context.Background()
	for _, key := range []string{"orders:500", "orders:0", "orders:1000", "payments:0"} {
		if err := store.PutWindow(ctx, key, nil); err != nil {
			t.Fatalf("PutWindow %s: %v", key, err)
		}
	}

	keys, err := store.WindowKeys(ctx, "orders")
	if err != nil {
		t.Fatalf("WindowKeys: %v", err)
	}
	want := []string{"orders:0", "orders:1000", "orders:500"}
	if len(keys) != len(want) {
		t.Fatalf("got keys %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got keys %v, want %v", keys, want)
		}
	}
}

func TestEtcdClientMissingWindowIsEmpty(t *testing.T) {
	e, endpoints := startEmbeddedEtcd(t)
	defer e.Close()

	store := newTestEtcdClient(t, endpoints)
	defer store.Close()

	window, err := store.Window(context.Background(), "orders:123")
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	if len(window.Members) != 0 {
		t.Fatalf("got %d members for a vanished window, want 0", len(window.Members))
	}
	if window.Timestamp != 123 {
		t.Fatalf("timestamp = %d, want 123", window.Timestamp)
	}
}

func TestEtcdClientCorruptValue(t *testing.T) {
	e, endpoints := startEmbeddedEtcd(t)
	defer e.Close()

	store := newTestEtcdClient(t, endpoints)
	defer store.Close()

	cli, err := clientv3.New(clientv3.Config{Endpoints: endpoints, DialTimeout: 3 * time.Second})
	if err != nil {
		t.Fatalf("new etcd client: %v", err)
	}
	defer cli.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := cli.Put(ctx, "/kafquery/metastore/windows/orders:1000", "garbage"); err != nil {
		t.Fatalf("put raw value: %v", err)
	}

	if _, err := store.Window(context.Background(), "orders:1000"); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("got %v, want ErrCorruptRecord", err)
	}
}

func newTestEtcdClient(t *testing.T, endpoints []string) *EtcdClient {
	t.Helper()
	store, err := NewEtcdClient(EtcdConfig{Endpoints: endpoints})
	if err != nil {
		t.Fatalf("NewEtcdClient: %v", err)
	}
	return store
}

func startEmbeddedEtcd(t *testing.T) (*embed.Etcd, []string) {
	t.Helper()
	if err := ensureEtcdPortsFree(); err != nil {
		t.Skipf("skipping etcd store tests: %v", err)
	}
	cfg := embed.NewConfig()
	cfg.Dir = t.TempDir()
	cfg.LogLevel = "error"
	cfg.Logger = "zap"
	setEtcdPorts(t, cfg, "32381", "32382")

	e, err := embed.StartEtcd(cfg)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping etcd store tests: %v", err)
		}
		t.Fatalf("start embedded etcd: %v", err)
	}
	select {
	case <-e.Server.ReadyNotify():
	case <-time.After(10 * time.Second):
		e.Server.Stop()
		t.Fatalf("etcd server took too long to start")
	}

	clientURL := e.Clients[0].Addr().String()
	return e, []string{fmt.Sprintf("http://%s", clientURL)}
}

func ensureEtcdPortsFree() error {
	for _, port := range []string{"32381", "32382"} {
		if err := killProcessesOnPort(port); err != nil {
			return err
		}
		if err := portAvailable("127.0.0.1:" + port); err != nil {
			return err
		}
	}
	return nil
}

func setEtcdPorts(t *testing.T, cfg *embed.Config, clientPort, peerPort string) {
	t.Helper()
	clientURL, err := url.Parse("http://127.0.0.1:" + clientPort)
	if err != nil {
		t.Fatalf("parse client url: %v", err)
	}
	peerURL, err := url.Parse("http://127.0.0.1:" + peerPort)
	if err != nil {
		t.Fatalf("parse peer url: %v", err)
	}
	cfg.ListenClientUrls = []url.URL{*clientURL}
	cfg.AdvertiseClientUrls = []url.URL{*clientURL}
	cfg.ListenPeerUrls = []url.URL{*peerURL}
	cfg.AdvertisePeerUrls = []url.URL{*peerURL}
	cfg.Name = "default"
	cfg.InitialCluster = cfg.InitialClusterFromName(cfg.Name)
}

func killProcessesOnPort(port string) error {
	out, err := exec.Command("lsof", "-nP", "-iTCP:"+port, "-sTCP:LISTEN", "-t").Output()
	if err != nil {
		return nil
	}
	pids := strings.Fields(string(out))
	for _, pidStr := range pids {
		pid, convErr := strconv.Atoi(strings.TrimSpace(pidStr))
		if convErr != nil {
			continue
		}
		_ = syscall.Kill(pid, syscall.SIGTERM)
		time.Sleep(100 * time.Millisecond)
		if alive := syscall.Kill(pid, 0); alive == nil {
			_ = syscall.Kill(pid, syscall.SIGKILL)
		}
	}
	return nil
}

func portAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %s already in use", addr)
	}
	_ = ln.Close()
	return nil
}
