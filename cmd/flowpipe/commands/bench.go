package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/flowpipe/flowpipe/cmd/flowpipe/internal/render"
	"github.com/flowpipe/flowpipe/pkg/pipe"
)

// BenchConfig holds benchmark parameters, loadable from a YAML file.
type BenchConfig struct {
	// Capacity is the fixed pipe capacity in bytes.
	Capacity int `yaml:"capacity"`

	// Total is the number of bytes pushed through each pipe.
	Total int64 `yaml:"total"`

	// Chunk is the per-call transfer size in bytes.
	Chunk int `yaml:"chunk"`

	// Backends lists the backends to exercise: mem, mapped, file, elastic.
	Backends []string `yaml:"backends"`
}

var (
	benchCfgFile string
	benchCfg     = BenchConfig{
		Capacity: 1 << 20,
		Total:    64 << 20,
		Chunk:    32 << 10,
		Backends: []string{"mem", "mapped", "file", "elastic"},
	}
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "FIFO throughput benchmark across pipe backends",
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchCfgFile != "" {
			data, err := os.ReadFile(benchCfgFile)
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			if err := yaml.Unmarshal(data, &benchCfg); err != nil {
				return fmt.Errorf("parse config %s: %w", benchCfgFile, err)
			}
		}
		return runBench(benchCfg)
	},
}

func init() {
	benchCmd.Flags().StringVarP(&benchCfgFile, "config", "f", "", "YAML benchmark config file")
	benchCmd.Flags().IntVar(&benchCfg.Capacity, "capacity", benchCfg.Capacity, "pipe capacity in bytes")
	benchCmd.Flags().Int64Var(&benchCfg.Total, "total", benchCfg.Total, "bytes to push through each pipe")
	benchCmd.Flags().IntVar(&benchCfg.Chunk, "chunk", benchCfg.Chunk, "per-call transfer size in bytes")
	rootCmd.AddCommand(benchCmd)
}

func openBackend(name string, capacity int) (pipe.Pipe, error) {
	switch name {
	case "mem":
		return pipe.Mem(capacity), nil
	case "mapped":
		return pipe.Mapped(capacity)
	case "file":
		return pipe.File(int64(capacity))
	case "elastic":
		return pipe.Elastic(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func runBench(cfg BenchConfig) error {
	rows := make([]render.Row, 0, len(cfg.Backends))
	for _, name := range cfg.Backends {
		p, err := openBackend(name, cfg.Capacity)
		if err != nil {
			return err
		}
		elapsed, err := pump(p, cfg.Total, cfg.Chunk)
		if cerr := p.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("bench %s: %w", name, err)
		}
		rows = append(rows, render.Row{
			Backend: name,
			Elapsed: elapsed,
			Rate:    float64(cfg.Total) / elapsed.Seconds() / (1 << 20),
		})
	}
	fmt.Print(render.Table(cfg.Total, rows))
	return nil
}

// pump pushes total bytes through p in chunk-sized writes, reading in
// lockstep so fixed-capacity pipes never stall.
func pump(p pipe.Pipe, total int64, chunk int) (time.Duration, error) {
	src := make([]byte, chunk)
	dst := make([]byte, chunk)
	start := time.Now()

	var written, read int64
	for read < total {
		if written < total {
			w := total - written
			if w > int64(chunk) {
				w = int64(chunk)
			}
			n, err := p.Write(src[:w])
			if err != nil {
				return 0, err
			}
			written += int64(n)
		}
		n, err := p.Read(dst)
		if err != nil {
			return 0, err
		}
		read += int64(n)
	}
	return time.Since(start), nil
}
