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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/9rum/kvtree/communicator"
	"github.com/spf13/cobra"
)

// dialFunc connects to the index server at addr.
type dialFunc func(ctx context.Context, addr string) (*communicator.Communicator, error)

func defaultDial(ctx context.Context, addr string) (*communicator.Communicator, error) {
	return communicator.Dial(ctx, addr)
}

// newRootCmd builds the kvctl command tree.  Every subcommand dials the server
// through dial, runs a single call and closes the connection.
func newRootCmd(dial dialFunc) *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)
	root := &cobra.Command{
		Use:           "kvctl",
		Short:         "Query and populate a kvtree index server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", "localhost:50051", "address of the index server")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "deadline of each call")

	// run dials the server and calls fn with a connected communicator.
	run := func(cmd *cobra.Command, fn func(ctx context.Context, c *communicator.Communicator, w io.Writer) error) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		c, err := dial(ctx, addr)
		if err != nil {
			return fmt.Errorf("could not connect to %s: %w", addr, err)
		}
		defer c.Close()
		return fn(ctx, c, cmd.OutOrStdout())
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Insert an entry; an existing key is kept alongside the new one",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, c *communicator.Communicator, w io.Writer) error {
					return c.Set(ctx, args[0], args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "get <key>",
			Short: "Print the value stored under a key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, c *communicator.Communicator, w io.Writer) error {
					value, ok, err := c.Get(ctx, args[0])
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("key %q not found", args[0])
					}
					fmt.Fprintln(w, value)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "first",
			Short: "Print the entry with the smallest key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, c *communicator.Communicator, w io.Writer) error {
					entry, err := c.First(ctx)
					return printEntry(w, entry, err)
				})
			},
		},
		&cobra.Command{
			Use:   "last",
			Short: "Print the entry with the largest key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, c *communicator.Communicator, w io.Writer) error {
					entry, err := c.Last(ctx)
					return printEntry(w, entry, err)
				})
			},
		},
		&cobra.Command{
			Use:   "less <key>",
			Short: "Print the entries whose key is less than the given key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, c *communicator.Communicator, w io.Writer) error {
					entries, err := c.LessThan(ctx, args[0])
					return printEntries(w, entries, err)
				})
			},
		},
		&cobra.Command{
			Use:   "more <key>",
			Short: "Print the entries whose key is greater than the given key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, c *communicator.Communicator, w io.Writer) error {
					entries, err := c.MoreThan(ctx, args[0])
					return printEntries(w, entries, err)
				})
			},
		},
		newRangeCmd(run),
		&cobra.Command{
			Use:   "len",
			Short: "Print the number of entries",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, c *communicator.Communicator, w io.Writer) error {
					n, err := c.Len(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintln(w, n)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "dump",
			Short: "Print every entry in ascending order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, func(ctx context.Context, c *communicator.Communicator, w io.Writer) error {
					return c.Ascend(ctx, func(entry communicator.Entry) bool {
						fmt.Fprintf(w, "%s\t%s\n", entry.Key(), entry.Value())
						return true
					})
				})
			},
		},
	)
	return root
}

func newRangeCmd(run func(*cobra.Command, func(context.Context, *communicator.Communicator, io.Writer) error) error) *cobra.Command {
	var sorted bool
	cmd := &cobra.Command{
		Use:   "range <lo> <hi>",
		Short: "Print the entries whose key lies strictly between lo and hi",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, c *communicator.Communicator, w io.Writer) error {
				entries, err := c.InRange(ctx, args[0], args[1], sorted)
				return printEntries(w, entries, err)
			})
		},
	}
	cmd.Flags().BoolVar(&sorted, "sorted", false, "order the entries by key")
	return cmd
}

func printEntry(w io.Writer, entry communicator.Entry, err error) error {
	if errors.Is(err, communicator.ErrEmptyTree) {
		return errors.New("the index is empty")
	} else if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\t%s\n", entry.Key(), entry.Value())
	return err
}

func printEntries(w io.Writer, entries []communicator.Entry, err error) error {
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err = fmt.Fprintf(w, "%s\t%s\n", entry.Key(), entry.Value()); err != nil {
			return err
		}
	}
	return nil
}
