package export

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/influencer-kpi/internal/insight"
)

// Output file names.
const (
	MasterFile     = "master.csv"
	PlatformFile   = "platform_performance.csv"
	PersonaFile    = "persona_performance.csv"
	CategoryFile   = "category_performance.csv"
	ProductFile    = "product_performance.csv"
	ActionsFile    = "investment_actions.csv"
	SummaryFile    = "executive_summary.yaml"
	WorkbookFile   = "dashboard.xlsx"
	maxConcurrency = 4
)

// Options controls WriteAll.
type Options struct {
	Dir       string
	Delimiter rune
	XLSX      bool
	RunID     string
}

// WriteAll writes every output of rep into opts.Dir, creating it if needed,
// and returns the paths written in lexical order.
func WriteAll(ctx context.Context, rep insight.Report, opts Options) ([]string, error) {
	if opts.Dir == "" {
		return nil, eris.New("export: output dir is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create dir %s", opts.Dir)
	}

	tables := map[string]Table{
		MasterFile:   MasterTable(rep.Master),
		PlatformFile: PlatformTable(rep.Platforms),
		PersonaFile:  PersonaTable(rep.Personas),
		CategoryFile: CategoryTable(rep.Categories),
		ProductFile:  ProductTable(rep.Products),
		ActionsFile:  ActionsTable(rep.Actions),
	}

	writers := make(map[string]func(io.Writer) error, len(tables)+2)
	for name, t := range tables {
		writers[name] = func(w io.Writer) error { return WriteCSV(w, t, opts.Delimiter) }
	}
	writers[SummaryFile] = func(w io.Writer) error {
		return WriteSummary(w, Summary{RunID: opts.RunID, Executive: rep.Executive, Platforms: rep.Platforms})
	}
	if opts.XLSX {
		writers[WorkbookFile] = func(w io.Writer) error {
			return WriteWorkbook(w,
				tables[MasterFile], tables[PlatformFile], tables[PersonaFile],
				tables[CategoryFile], tables[ProductFile], tables[ActionsFile],
			)
		}
	}

	paths := make([]string, 0, len(writers))
	for name := range writers {
		paths = append(paths, filepath.Join(opts.Dir, name))
	}
	sort.Strings(paths)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)
	for name, write := range writers {
		path := filepath.Join(opts.Dir, name)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return writeFile(path, write)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	zap.L().Info("export: outputs written",
		zap.String("dir", opts.Dir),
		zap.Int("files", len(paths)),
		zap.Int("master_rows", len(rep.Master)),
	)
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close() //nolint:errcheck
		return eris.Wrapf(err, "export: flush %s", path)
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", path)
	}
	return nil
}
