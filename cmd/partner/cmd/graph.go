// Copyright 2026 The JazzPetri Authors
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

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jazzpetri/partner/petri"
	"github.com/jazzpetri/partner/reachability"
)

var (
	graphOutput    string
	graphMaxStates int
	netDotPath     string
	showReport     bool
)

var graphCmd = &cobra.Command{
	Use:   "graph <net-file>",
	Short: "Write the inner reachability graph of an open net",
	Long: `Generate the reachability graph of the inner net and write it in the
graph file format accepted by "partner check --graph".

Examples:
  partner graph shop.net
  partner graph -o shop.graph --net-dot shop.dot shop.net
  partner graph --report -o /dev/null shop.net`,
	Args: cobra.ExactArgs(1),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "-", "write the graph to `file`")
	graphCmd.Flags().IntVar(&graphMaxStates, "max-states", reachability.DefaultMaxStates,
		"limit on the inner reachability graph")
	graphCmd.Flags().StringVar(&netDotPath, "net-dot", "", "also write the net as Graphviz DOT to `file`")
	graphCmd.Flags().BoolVar(&showReport, "report", false, "check properties of the inner net and print them to stderr")
}

func runGraph(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr)

	parser, err := petri.NewParser()
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	net, err := parser.ParseFile(args[0])
	if err != nil {
		return err
	}
	if _, err := net.AddDummyTransition(); err != nil {
		return err
	}

	if netDotPath != "" {
		if err := writeTo(netDotPath, func(w io.Writer) error {
			_, err := io.WriteString(w, net.ToDOT())
			return err
		}); err != nil {
			return err
		}
	}

	gen, err := reachability.NewGenerator(net, graphMaxStates, logger)
	if err != nil {
		return err
	}
	g, err := gen.Generate()
	if err != nil {
		return err
	}

	logger.Info("generated inner graph", map[string]interface{}{
		"net":    net.Name,
		"states": len(g.States),
	})
	if showReport {
		printReport(cmd.ErrOrStderr(), g.Analyze())
	}
	return writeTo(graphOutput, func(w io.Writer) error { return reachability.Write(w, g) })
}

func printReport(w io.Writer, r *reachability.Report) {
	fmt.Fprintf(w, "%d states, %d edges\n", r.States, r.Edges)
	for _, p := range r.Properties {
		mark := "ok  "
		if !p.Satisfied {
			mark = "FAIL"
		}
		fmt.Fprintf(w, "  [%s] %-17s %s\n", mark, p.Property, p.Message)
		if len(p.Witness) > 0 {
			fmt.Fprintf(w, "         witness: %s\n", strings.Join(p.Witness, " "))
		}
	}
}
