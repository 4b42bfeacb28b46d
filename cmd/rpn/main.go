// Command rpn evaluates Reverse Polish Notation expressions.
//
// Usage:
//
//	rpn [flags] [--] EXPR...
//	rpn [flags] -f FILE...
//
// Arguments are joined by spaces into a single expression. Without arguments,
// or with -f, every non-blank line of the input that does not start with # is
// evaluated as its own expression. Results are printed one per line; the exit
// status is non-zero if any expression had no result.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	rpn "github.com/jcorbin/gorpn"
	"github.com/jcorbin/gorpn/internal/config"
	"github.com/jcorbin/gorpn/internal/lineinput"
	"github.com/jcorbin/gorpn/internal/logio"
	"github.com/jcorbin/gorpn/internal/panicerr"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

var diagnosticSink = func(log *logio.Logger) func(rpn.Diagnostic) {
	return func(d rpn.Diagnostic) { log.Printf("WARN", "%v", d) }
}

type fileList []string

func (fl *fileList) String() string     { return strings.Join(*fl, ",") }
func (fl *fileList) Set(s string) error { *fl = append(*fl, s); return nil }

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log := logio.NewLogger(stderr)

	var (
		configPath string
		files      fileList
		flags      = config.Default()
	)
	fs := flag.NewFlagSet("rpn", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "config", "", "load settings from a YAML or JSON `file`")
	fs.StringVar(&flags.Delimiter, "d", "", "token delimiter (default whitespace)")
	fs.BoolVar(&flags.Trace, "trace", false, "enable trace logging")
	fs.BoolVar(&flags.Stats, "stats", false, "print evaluation metrics on exit")
	fs.IntVar(&flags.Precision, "precision", -1, "significant digits to print, -1 for shortest exact")
	fs.Var(&files, "f", "read one expression per line from `file` (- for stdin); may be repeated")
	if err := fs.Parse(args); errors.Is(err, flag.ErrHelp) {
		return 0
	} else if err != nil {
		return 2
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.FromFile(configPath); err != nil {
			log.ErrorIf(err)
			return log.ExitCode()
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d":
			cfg.Delimiter = flags.Delimiter
		case "trace":
			cfg.Trace = flags.Trace
		case "stats":
			cfg.Stats = flags.Stats
		case "precision":
			cfg.Precision = flags.Precision
		}
	})

	opts := []rpn.Option{
		rpn.WithDelimiter(cfg.Delimiter),
		rpn.WithDiagnostics(diagnosticSink(log)),
	}
	if cfg.Trace {
		opts = append(opts, rpn.WithLogf(log.Leveledf("TRACE")))
	}

	var stats *sdkmetric.ManualReader
	if cfg.Stats {
		stats = sdkmetric.NewManualReader()
		provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(stats))
		defer provider.Shutdown(context.Background())
		m, err := rpn.NewMetrics(provider.Meter("github.com/jcorbin/gorpn/cmd/rpn"))
		if err != nil {
			log.ErrorIf(err)
			return log.ExitCode()
		}
		opts = append(opts, rpn.WithMetrics(m))
	}

	out := bufio.NewWriter(stdout)
	eval := func(line lineinput.Line) {
		v, err := rpn.New(line.Text, opts...).Eval()
		if panicerr.IsPanic(err) {
			log.Errorf("%v: %q: internal error: %v", line.Location, line.Text, err)
			log.Printf("", "%s", panicerr.PanicStack(err))
			return
		} else if err != nil {
			log.Errorf("%v: %q: no result: %v", line.Location, line.Text, err)
			return
		}
		fmt.Fprintln(out, strconv.FormatFloat(v, 'g', cfg.Precision, 64))
	}

	if fs.NArg() > 0 && len(files) == 0 {
		eval(lineinput.Line{
			Location: lineinput.Location{Name: "<args>", Line: 1},
			Text:     strings.Join(fs.Args(), " "),
		})
	} else {
		if len(files) == 0 {
			files = append(files, "-")
		}
		in, err := openInputs(files, stdin)
		if err != nil {
			log.ErrorIf(err)
		} else {
			for {
				line, err := in.ReadLine()
				if err == io.EOF {
					break
				} else if err != nil {
					log.ErrorIf(err)
					continue
				}
				if text := strings.TrimSpace(line.Text); text == "" || strings.HasPrefix(text, "#") {
					continue
				}
				eval(line)
			}
		}
	}

	if err := out.Flush(); err != nil {
		log.ErrorIf(err)
	}
	if stats != nil {
		log.ErrorIf(printStats(log, stats))
	}
	return log.ExitCode()
}

func openInputs(names []string, stdin io.Reader) (*lineinput.Input, error) {
	var in lineinput.Input
	for _, name := range names {
		if name == "-" {
			in.Queue = append(in.Queue, lineinput.Named("<stdin>", stdin))
			continue
		}
		f, err := os.Open(name)
		if err != nil {
			for _, r := range in.Queue {
				if opened, ok := r.(*os.File); ok {
					opened.Close()
				}
			}
			return nil, err
		}
		in.Queue = append(in.Queue, f)
	}
	return &in, nil
}

func printStats(log *logio.Logger, reader *sdkmetric.ManualReader) error {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		return err
	}
	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%v%v %v", m.Name, attrString(dp.Attributes), dp.Value))
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%v%v count=%v sum=%v", m.Name, attrString(dp.Attributes), dp.Count, dp.Sum))
				}
			}
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		log.Printf("STAT", "%v", line)
	}
	return nil
}

func attrString(set attribute.Set) string {
	if set.Len() == 0 {
		return ""
	}
	return "{" + set.Encoded(attribute.DefaultEncoder()) + "}"
}
