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
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jazzpetri/partner/engine"
	"github.com/jazzpetri/partner/observability"
	"github.com/jazzpetri/partner/og"
	"github.com/jazzpetri/partner/petri"
	"github.com/jazzpetri/partner/reachability"
	"github.com/jazzpetri/partner/space"
)

var (
	configPath     string
	messageBound   int
	correctness    string
	maxStates      int
	noDeadlockDet  bool
	graphInput     bool
	ogPath         string
	dotPath        string
	resultsPath    string
	metricsPath    string
	showEmpty      bool
	showWaitstates bool
	showTransients bool

	reduceAll         bool
	ignoreUnreceived  bool
	sequentialReceive bool
	receiveBeforeSend bool
	waitstatesOnly    bool
	quitEarly         bool
	succeedingSend    bool
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check an open net for controllability",
	Long: `Generate the inner reachability graph of an open net, explore the
knowledge space and report whether a partner exists.

The verdict is printed as "net is controllable: YES" or "... NO". Both
verdicts exit with status 0; malformed input exits with status 1.

Examples:
  partner check shop.net
  partner check --message-bound 2 --correctness livelock shop.net
  partner check --og shop.og --dot shop.dot --show-empty shop.net
  partner check --graph --results shop.yaml shop.graph`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	f := checkCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML config file")
	f.IntVarP(&messageBound, "message-bound", "m", engine.DefaultMessageBound,
		"pending messages allowed per channel")
	f.StringVar(&correctness, "correctness", string(engine.Deadlock),
		"deadlock or livelock")
	f.IntVar(&maxStates, "max-states", engine.DefaultMaxInnerStates,
		"limit on the inner reachability graph")
	f.BoolVar(&noDeadlockDet, "no-deadlock-detection", false,
		"do not mark inevitable deadlocks of the inner graph up front")
	f.BoolVarP(&graphInput, "graph", "g", false,
		"the argument is an inner graph file, not a net")

	f.StringVar(&ogPath, "og", "", "write the operating guideline to `file` (- for stdout)")
	f.StringVar(&dotPath, "dot", "", "write the guideline as Graphviz DOT to `file`")
	f.BoolVar(&showEmpty, "show-empty", false, "draw the empty node in DOT output")
	f.BoolVar(&showWaitstates, "show-waitstates", false, "list deadlock pairs in DOT output")
	f.BoolVar(&showTransients, "show-transients", false, "list transient pairs in DOT output")
	f.StringVar(&resultsPath, "results", "", "write verdict and statistics as YAML to `file`")
	f.StringVar(&metricsPath, "metrics", "", "write Prometheus metrics to `file`")

	f.BoolVar(&reduceAll, "reduce-all", false, "enable every search reduction")
	f.BoolVar(&ignoreUnreceived, "ignore-unreceived", false, "skip sends the net can never receive")
	f.BoolVar(&sequentialReceive, "sequential-receive", false, "receive pending messages in label order")
	f.BoolVar(&receiveBeforeSend, "receive-before-send", false, "skip sends once pending receives make a knowledge sane")
	f.BoolVar(&waitstatesOnly, "waitstates-only", false, "try sends no waitstate consumes only when needed")
	f.BoolVar(&quitEarly, "quit-early", false, "stop expanding a node once it is sane")
	f.BoolVar(&succeedingSend, "succeeding-send", false, "stop sending once a send made the node sane")
}

// loadConfig reads --config and applies the flags the user set explicitly.
func loadConfig(cmd *cobra.Command) (engine.Config, error) {
	cfg := engine.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = engine.LoadConfig(configPath); err != nil {
			return cfg, err
		}
	}

	f := cmd.Flags()
	if f.Changed("message-bound") {
		cfg.MessageBound = messageBound
	}
	if f.Changed("correctness") {
		cfg.Correctness = engine.Correctness(correctness)
	}
	if f.Changed("max-states") {
		cfg.MaxInnerStates = maxStates
	}
	if noDeadlockDet {
		cfg.DeadlockDetection = false
	}

	r := &cfg.Reduction
	r.IgnoreUnreceivedMessages = r.IgnoreUnreceivedMessages || reduceAll || ignoreUnreceived
	r.SequentialReceive = r.SequentialReceive || reduceAll || sequentialReceive
	r.ReceiveBeforeSend = r.ReceiveBeforeSend || reduceAll || receiveBeforeSend
	r.WaitstatesOnly = r.WaitstatesOnly || reduceAll || waitstatesOnly
	r.QuitEarly = r.QuitEarly || reduceAll || quitEarly
	r.SucceedingSend = r.SucceedingSend || reduceAll || succeedingSend

	return cfg, cfg.Validate()
}

func runCheck(cmd *cobra.Command, args []string) error {
	filename := args[0]
	logger := newLogger(os.Stderr)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var metrics *observability.PrometheusMetrics
	opts := engine.Options{Logger: logger}
	if metricsPath != "" {
		if metrics, err = observability.NewPrometheusMetrics(nil); err != nil {
			return err
		}
		opts.Metrics = metrics
	}

	prog := newProgress(os.Stderr, logger)
	opts.OnProgress = prog.report

	eng, err := engine.NewEngine(cfg, opts)
	if err != nil {
		return err
	}

	var res *engine.Result
	if graphInput {
		res, err = checkGraph(eng, filename)
	} else {
		res, err = checkNet(eng, filename)
	}
	prog.done()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "net is controllable: %s\n", res.Verdict())

	if err := writeOutputs(res); err != nil {
		return err
	}
	if metrics != nil {
		for _, e := range metrics.Errors() {
			logger.Warn("metric dropped", map[string]interface{}{"error": e.Error()})
		}
		if err := metrics.WriteTextfile(metricsPath); err != nil {
			return err
		}
	}
	return nil
}

func checkNet(eng *engine.Engine, filename string) (*engine.Result, error) {
	parser, err := petri.NewParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}
	net, err := parser.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return eng.CheckNet(net)
}

func checkGraph(eng *engine.Engine, filename string) (*engine.Result, error) {
	parser, err := reachability.NewParser()
	if err != nil {
		return nil, fmt.Errorf("failed to create parser: %w", err)
	}
	b, err := parser.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return eng.CheckGraph(name, b)
}

func writeOutputs(res *engine.Result) error {
	sp := res.KnowledgeSpace()

	if ogPath != "" || dotPath != "" {
		if !res.Controllable {
			fmt.Fprintln(os.Stderr, "partner: net is not controllable, no operating guideline written")
		} else {
			if ogPath != "" {
				header := og.Header{Generator: rootCmd.Name() + " " + rootCmd.Version, Invocation: strings.Join(os.Args, " ")}
				if err := writeTo(ogPath, func(w io.Writer) error { return og.Write(w, sp, header) }); err != nil {
					return err
				}
			}
			if dotPath != "" {
				dopts := og.DotOptions{ShowEmpty: showEmpty, ShowWaitstates: showWaitstates, ShowTransients: showTransients}
				if err := writeTo(dotPath, func(w io.Writer) error { return og.WriteDot(w, sp, dopts) }); err != nil {
					return err
				}
			}
		}
	}

	if resultsPath != "" {
		return writeTo(resultsPath, res.WriteYAML)
	}
	return nil
}

// writeTo creates path ("-" is stdout) and hands it to write.
func writeTo(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// progress prints a running count on a terminal and logs it otherwise.
type progress struct {
	w        io.Writer
	logger   observability.Logger
	terminal bool
	printed  bool
}

func newProgress(f *os.File, logger observability.Logger) *progress {
	fd := f.Fd()
	return &progress{
		w:        f,
		logger:   logger,
		terminal: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

func (p *progress) report(s space.Stats) {
	if !p.terminal {
		p.logger.Debug("progress", map[string]interface{}{
			"knowledges": s.StoredNodes,
			"edges":      s.StoredEdges,
		})
		return
	}
	fmt.Fprintf(p.w, "\r%8d knowledges, %8d edges", s.StoredNodes, s.StoredEdges)
	p.printed = true
}

func (p *progress) done() {
	if p.printed {
		fmt.Fprintln(p.w)
	}
}
