// Copyright 2022 Sogang University
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

// Package main implements the index server.  The server holds a single
// in-memory B-tree, optionally bulk-loaded from a dataset file at startup,
// and serves it over gRPC until it receives SIGINT or SIGTERM.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/9rum/kvtree/index"
	"github.com/9rum/kvtree/internal/btree"
	"github.com/9rum/kvtree/internal/data"
	"github.com/golang/glog"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
)

func main() {
	port := flag.Int("p", 50051, "The server port")
	degree := flag.Int("degree", btree.DefaultDegree, "The minimum degree of the B-tree")
	path := flag.String("f", "", "The dataset to bulk-load at startup")
	sep := flag.String("sep", data.DefaultSeparator, "The separator between key and value in the dataset")
	flag.Parse()
	defer glog.Flush()

	tree, err := btree.New[string, string](*degree)
	if err != nil {
		glog.Fatalf("invalid configuration: %v", err)
	}

	if *path != "" {
		n, err := data.LoadFile(tree, *path, *sep)
		if err != nil {
			glog.Fatalf("failed to load dataset: %v", err)
		}
		glog.Infof("loaded %d entries from %s", n, *path)
	}

	if err := serve(*port, tree); err != nil {
		glog.Fatalf("failed to serve: %v", err)
	}
}

func serve(port int, tree *btree.BTree[string, string]) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}

	server := newServer(tree)
	glog.Infof("server listening at %v with degree %d", lis.Addr(), tree.Degree())

	return server.Serve(lis)
}

func newServer(tree *btree.BTree[string, string]) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_recovery.StreamServerInterceptor(),
		),
	)
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func(done <-chan os.Signal, server *grpc.Server) {
		sig := <-done
		glog.Infof("received %v, shutting down", sig)
		server.GracefulStop()
	}(done, server)

	index.RegisterIndexServer(server, index.NewIndexServer(tree))

	return server
}
