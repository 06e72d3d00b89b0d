package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sp-depends/internal/catalog"
	"sp-depends/internal/ddl"
	"sp-depends/internal/dialect"
	"sp-depends/internal/procedure"

	"github.com/gosuri/uiprogress"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ddlCmd = &cobra.Command{
	Use:   "ddl <procedure.sql | dir>...",
	Short: "Generate synthetic DDL for the tables a stored procedure depends on",
	Long: `Generate synthetic DDL for the tables a stored procedure depends on.

With a single input the DDL is printed and saved to --out. With several
inputs, or a directory of *.sql files, one file per procedure is written
to --out-dir.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig()
		if err != nil {
			return err
		}

		inputs, err := collectInputs(appFs, args)
		if err != nil {
			return err
		}

		src, closeSource, err := buildTypeSource(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeSource()

		g := &generator{
			fs:  appFs,
			src: src,
			extract: procedure.Options{
				DefaultDatabase: cfg.Repository.DefaultDatabase,
				DefaultSchema:   cfg.Repository.DefaultSchema,
			},
			render: ddl.Options{Placeholder: cfg.Output.PlaceholderType},
		}

		if len(inputs) == 1 {
			return runSingle(cmd, g, inputs[0], cfg.Output.File)
		}
		return runBatch(cmd, g, inputs, cfg.Output.Dir)
	},
}

func init() {
	RootCmd.AddCommand(ddlCmd)

	ddlCmd.Flags().String("out", "", "File the DDL is saved to (single input)")
	ddlCmd.Flags().String("out-dir", "", "Directory the per-procedure DDL files are written to (several inputs)")
	ddlCmd.Flags().String("placeholder", "", "Type used for columns without a declared type")

	viper.BindPFlag("output.file", ddlCmd.Flags().Lookup("out"))
	viper.BindPFlag("output.dir", ddlCmd.Flags().Lookup("out-dir"))
	viper.BindPFlag("output.placeholder_type", ddlCmd.Flags().Lookup("placeholder"))
	viper.SetDefault("output.file", "output.txt")
	viper.SetDefault("output.dir", "ddl")
	viper.SetDefault("output.placeholder_type", ddl.PlaceholderType)
}

// generator runs read -> extract -> render for one procedure source.
type generator struct {
	fs      afero.Fs
	src     ddl.TypeSource
	extract procedure.Options
	render  ddl.Options
}

// Generate returns the procedure and its rendered DDL. Only a failure to
// read the source is an error.
func (g *generator) Generate(ctx context.Context, path string) (*procedure.StoredProcedure, string, error) {
	data, err := afero.ReadFile(g.fs, path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to read procedure source %s", path)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")

	sp := procedure.New(procedure.ExtractName(text), procedure.Extract(text, g.extract))
	for _, alias := range sp.UnresolvedAliases() {
		logrus.WithField("procedure", sp.Name).WithField("alias", alias).
			Warnf("Unresolved column qualifier, columns %v not attributed to a table", sp.Unresolved[alias])
	}
	return sp, ddl.Render(ctx, sp, g.src, g.render), nil
}

func runSingle(cmd *cobra.Command, g *generator, input, outFile string) error {
	_, out, err := g.Generate(cmd.Context(), input)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "\nGenerated DDL Statements:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, out)

	if outFile == "" {
		return nil
	}
	if err := afero.WriteFile(g.fs, outFile, []byte(out+"\n"), 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", outFile)
	}
	logrus.Infof("DDL statements saved to: %s", outFile)
	return nil
}

func runBatch(cmd *cobra.Command, g *generator, inputs []string, outDir string) error {
	if err := g.fs.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrapf(err, "failed to create %s", outDir)
	}

	progress := uiprogress.New()
	progress.SetOut(cmd.ErrOrStderr())
	progress.Start()
	bar := progress.AddBar(len(inputs)).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return "Processing: "
	})

	// log lines are printed above the bar while it renders
	logger := logrus.StandardLogger()
	prevOut := logger.Out
	logger.SetOutput(progress.Bypass())
	defer func() {
		progress.Stop()
		logger.SetOutput(prevOut)
	}()

	used := map[string]string{}
	for _, input := range inputs {
		sp, out, err := g.Generate(cmd.Context(), input)
		if err != nil {
			return err
		}
		name := uniqueName(used, outputName(sp.Name, input), input)
		target := filepath.Join(outDir, name)
		if err := afero.WriteFile(g.fs, target, []byte(out+"\n"), 0o644); err != nil {
			return errors.Wrapf(err, "failed to write %s", target)
		}
		bar.Incr()
	}

	logrus.Infof("Wrote %d DDL files to %s", len(inputs), outDir)
	return nil
}

// outputName names a batch output after the procedure, falling back to
// the source file name when the header could not be read.
func outputName(procName, input string) string {
	if procName == procedure.UnknownName {
		return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".sql"
	}
	return strings.NewReplacer("/", "_", "\\", "_").Replace(procName) + ".sql"
}

// uniqueName suffixes name with _2, _3, ... when an earlier input in the
// batch already claimed it. used maps lower-cased names to their input.
func uniqueName(used map[string]string, name, input string) string {
	candidate := name
	for i := 2; ; i++ {
		if _, taken := used[strings.ToLower(candidate)]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s_%d.sql", strings.TrimSuffix(name, ".sql"), i)
	}
	if candidate != name {
		logrus.WithField("input", input).WithField("previous", used[strings.ToLower(name)]).
			Warnf("Output name %s already used in this batch, writing %s", name, candidate)
	}
	used[strings.ToLower(candidate)] = input
	return candidate
}

// collectInputs expands directories into their *.sql files. A missing
// input is fatal.
func collectInputs(fs afero.Fs, args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := fs.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", arg)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}

		var found []string
		err = afero.Walk(fs, arg, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !fi.IsDir() && strings.EqualFold(filepath.Ext(path), ".sql") {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", arg)
		}
		if len(found) == 0 {
			logrus.WithField("dir", arg).Warn("No .sql files found")
		}
		sort.Strings(found)
		inputs = append(inputs, found...)
	}
	if len(inputs) == 0 {
		return nil, errors.New("no procedure sources to process")
	}
	return inputs, nil
}

// buildTypeSource chains the script repository with the live catalog when
// one is configured. The returned func releases the database handle.
func buildTypeSource(ctx context.Context, cfg *Config) (ddl.TypeSource, func(), error) {
	files := &catalog.FileCatalog{
		Locator: catalog.NewLocator(appFs, cfg.Repository.Path, cfg.Repository.DefaultDatabase, cfg.Repository.DefaultSchema),
	}
	noop := func() {}

	dbCfg, err := cfg.ActiveDatabase()
	if err != nil {
		return nil, noop, err
	}
	if dbCfg == nil {
		return files, noop, nil
	}

	driver := dbCfg.Driver
	if driver == "" {
		driver = "sqlserver"
	}
	db, err := sql.Open(driver, dbCfg.DSN)
	if err != nil {
		return nil, noop, errors.Wrap(err, "failed to open db")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, noop, errors.Wrap(err, "failed to connect to db")
	}
	logrus.Infof("Using live catalog %s (%s) for missing column types", dbCfg.Name, driver)

	live := &catalog.DBCatalog{
		DB:              db,
		Dialect:         dialect.GetDialect(driver),
		DefaultDatabase: cfg.Repository.DefaultDatabase,
		DefaultSchema:   cfg.Repository.DefaultSchema,
	}
	return catalog.Chain{files, live}, func() { db.Close() }, nil
}
