package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/objectx/bullsat/internal/config"
	"github.com/objectx/bullsat/internal/sat"
	"github.com/objectx/bullsat/parsers"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagMaxConflict = flag.Int64(
	"max_conflicts",
	-1,
	"maximum number of conflicts allowed to solve the problem (-1 = no maximum)",
)

var flagTimeout = flag.Duration(
	"timeout",
	-1,
	"maximum solve time (-1 = no timeout)",
)

var flagConfigFile = flag.String(
	"config",
	"",
	"optional JSON file with solver options (flags take precedence)",
)

var flagGzipped = flag.Bool(
	"gzip",
	false,
	"read the instance file as gzip compressed",
)

func parseFlags() (*cliConfig, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &cliConfig{
		instanceFile: flag.Arg(0),
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
		maxConflicts: *flagMaxConflict,
		timeout:      *flagTimeout,
		configFile:   *flagConfigFile,
		gzipped:      *flagGzipped,
	}, nil
}

type cliConfig struct {
	instanceFile string
	memProfile   bool
	cpuProfile   bool
	maxConflicts int64
	timeout      time.Duration
	configFile   string
	gzipped      bool
}

func solverOptions(cfg *cliConfig) (sat.Options, error) {
	options := sat.DefaultOptions
	if cfg.configFile != "" {
		fileCfg, err := config.Load(cfg.configFile)
		if err != nil {
			return options, err
		}
		options = fileCfg.Options()
	}
	if cfg.maxConflicts >= 0 {
		options.MaxConflicts = cfg.maxConflicts
	}
	if cfg.timeout >= 0 {
		options.Timeout = cfg.timeout
	}
	return options, nil
}

// modelString formats a model as a DIMACS "v" line.
func modelString(model []bool) string {
	tokens := lo.Map(model, func(b bool, i int) string {
		if b {
			return strconv.Itoa(i + 1)
		}
		return strconv.Itoa(-(i + 1))
	})
	return "v " + strings.Join(tokens, " ") + " 0"
}

func run(cfg *cliConfig) error {
	options, err := solverOptions(cfg)
	if err != nil {
		return err
	}

	s := sat.NewSolver(options)
	if err := parsers.LoadDIMACS(cfg.instanceFile, cfg.gzipped, s); err != nil {
		return fmt.Errorf("could not parse instance: %s", err)
	}

	fmt.Printf("c variables:  %d\n", s.NumVariables())
	fmt.Printf("c clauses:    %d\n", s.NumConstraints())

	t := time.Now()
	status := s.Solve()
	elapsed := time.Since(t)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", s.TotalConflicts, float64(s.TotalConflicts)/elapsed.Seconds())
	fmt.Printf("c decisions:  %d\n", s.TotalDecisions)
	fmt.Printf("c propagations: %d\n", s.TotalPropagations)
	fmt.Printf("s %s\n", status.StatusString())
	if status == sat.True {
		fmt.Println(modelString(s.Model()))
	}

	return nil
}

func main() {
	cfg, err := parseFlags()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
		return
	}
}
