// Package main provides the CLI entry point for molbokeh.
package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh"
	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/models"
	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/output"
	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/table"
)

var (
	configPath string
	logLevel   string

	outputPath   string
	smilesColumn string
	xColumn      string
	yColumn      string
	hoverColumns []string
	molSize      string
	title        string
	format       string
	pretty       bool
	tableOut     string
	sheet        string
	fromChart    bool

	renderHTML bool
	noKekulize bool
	rawSVG     bool

	config *Config
	logger *log.Logger
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "molbokeh",
		Short: "Add molecule structure images to chart tooltips",
		Long: `molbokeh plots a table of molecules and shows each row's 2D structure
in the hover tooltip. It also renders single SMILES strings as SVG.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			config, err = LoadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				config.LogLevel = logLevel
			}
			logger = newLogger(config.LogLevel)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	plotCmd := &cobra.Command{
		Use:   "plot [table.xlsx|table.csv]",
		Short: "Plot a table with molecule images in the hover tooltip",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlot,
	}
	plotCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	plotCmd.Flags().StringVar(&smilesColumn, "smiles", "", "Column holding SMILES strings (default: SMILES)")
	plotCmd.Flags().StringVar(&xColumn, "x", "", "Column plotted on the x axis")
	plotCmd.Flags().StringVar(&yColumn, "y", "", "Column plotted on the y axis")
	plotCmd.Flags().StringArrayVar(&hoverColumns, "hover", nil, "Extra column shown in the tooltip (repeatable)")
	plotCmd.Flags().StringVar(&molSize, "mol-size", "", "Tooltip image size as WxH (default: 150x150)")
	plotCmd.Flags().StringVar(&title, "title", "", "Plot title")
	plotCmd.Flags().StringVar(&format, "format", "", "Output format: html or json (default: html)")
	plotCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	plotCmd.Flags().StringVar(&tableOut, "table-out", "", "Write the table with the image column to this .xlsx file")
	plotCmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read from .xlsx input")
	plotCmd.Flags().BoolVar(&fromChart, "from-chart", false, "Use the first chart of the .xlsx sheet as the figure instead of --x/--y")

	renderCmd := &cobra.Command{
		Use:   "render [SMILES]",
		Short: "Render a SMILES string as an SVG data URI",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	renderCmd.Flags().StringVar(&molSize, "mol-size", "", "Image size as WxH (default: 320x320)")
	renderCmd.Flags().BoolVar(&renderHTML, "html", false, "Wrap the data URI in an <img> tag")
	renderCmd.Flags().BoolVar(&noKekulize, "no-kekulize", false, "Draw aromatic bonds instead of alternating single/double bonds")
	renderCmd.Flags().BoolVar(&rawSVG, "svg", false, "Write raw SVG markup instead of a data URI")

	rootCmd.AddCommand(plotCmd, renderCmd)
	return rootCmd
}

func newLogger(level string) *log.Logger {
	return &log.Logger{
		Level: log.ParseLevel(level),
		Writer: &log.ConsoleWriter{
			Writer:      os.Stderr,
			ColorOutput: true,
		},
	}
}

func runPlot(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	pc := config.Plot
	if smilesColumn != "" {
		pc.SmilesColumn = smilesColumn
	}
	if cmd.Flags().Changed("hover") {
		pc.Hover = hoverColumns
	}
	if molSize != "" {
		size, err := parseSize(molSize)
		if err != nil {
			return err
		}
		pc.MolSize = size
	}
	if format != "" {
		pc.Format = format
	}
	if sheet != "" {
		pc.Sheet = sheet
	}
	if pc.Format != "html" && pc.Format != "json" {
		return fmt.Errorf("invalid format: %s (must be html or json)", pc.Format)
	}

	source, fig, err := loadFigure(inputPath, pc)
	if err != nil {
		return err
	}

	mb := molbokeh.New(logger)
	if _, err := mb.AddMolecule(fig, source, pc.SmilesColumn, molbokeh.Options{
		HoverAdditionalInfo: pc.Hover,
		MolSize:             pc.MolSize,
	}); err != nil {
		return fmt.Errorf("failed to add molecules: %w", err)
	}

	if tableOut != "" {
		if err := table.WriteXLSX(tableOut, mb.Table(), pc.Sheet); err != nil {
			return fmt.Errorf("failed to write table: %w", err)
		}
		logger.Info().Str("path", tableOut).Msg("wrote table")
	}

	return writeOutput(func(w io.Writer) error {
		if pc.Format == "json" {
			data, err := output.ToJSON(fig, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			_, err = fmt.Fprintln(w, string(data))
			return err
		}
		return output.ToHTML(w, fig)
	})
}

// loadFigure reads the table and builds the figure to overlay, either from
// --x/--y or from a chart embedded in the workbook.
func loadFigure(inputPath string, pc PlotConfig) (*models.ColumnDataSource, *models.Figure, error) {
	if !fromChart {
		if xColumn == "" || yColumn == "" {
			return nil, nil, fmt.Errorf("--x and --y are required unless --from-chart is set")
		}
		source, err := table.Load(inputPath, table.Options{Sheet: pc.Sheet})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load table: %w", err)
		}
		logger.Debug().Str("path", inputPath).Int("rows", source.Len()).Strs("columns", source.Columns()).Msg("loaded table")

		fig := models.NewFigure(title, pc.Width, pc.Height)
		fig.XAxisLabel = xColumn
		fig.YAxisLabel = yColumn
		fig.Scatter(xColumn, yColumn, source, "", 0)
		return source, fig, nil
	}

	charts, err := table.LoadCharts(inputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read charts: %w", err)
	}
	var chart *table.Chart
	for i := range charts {
		if pc.Sheet == "" || charts[i].Sheet == pc.Sheet {
			chart = &charts[i]
			break
		}
	}
	if chart == nil {
		return nil, nil, fmt.Errorf("no chart found in %s", inputPath)
	}
	logger.Info().Str("sheet", chart.Sheet).Str("chart", chart.Name).Str("type", chart.ChartType).Int("series", len(chart.Series)).Msg("using workbook chart")

	source, err := table.LoadXLSX(inputPath, table.Options{Sheet: chart.Sheet})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load table: %w", err)
	}
	fig, err := chart.Figure(source, pc.Width, pc.Height)
	if err != nil {
		return nil, nil, err
	}
	if title != "" {
		fig.Title = title
	}
	return source, fig, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	opts := molbokeh.RenderOptions{
		MolSize:  config.Render.MolSize,
		Kekulize: config.Render.Kekulize,
		HTML:     renderHTML && !rawSVG,
		Logger:   logger,
	}
	if molSize != "" {
		size, err := parseSize(molSize)
		if err != nil {
			return err
		}
		opts.MolSize = size
	}
	if noKekulize {
		kekulize := false
		opts.Kekulize = &kekulize
	}

	uri, err := molbokeh.SmiToSVG(args[0], opts)
	if err != nil {
		return err
	}

	out := uri
	if rawSVG {
		svg, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, molbokeh.SVGDataURIPrefix))
		if err != nil {
			return err
		}
		out = string(svg)
	}
	return writeOutput(func(w io.Writer) error {
		_, err := fmt.Fprintln(w, out)
		return err
	})
}

// writeOutput sends output to the -o file, or stdout when unset.
func writeOutput(write func(io.Writer) error) error {
	if outputPath == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
