// Command gridwords encodes coordinates into three word addresses and back, and
// serves the same operations over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lintang-b-s/gridwords/pkg/codec"
	"github.com/lintang-b-s/gridwords/pkg/geocoder"
	"github.com/lintang-b-s/gridwords/pkg/http"
	"github.com/lintang-b-s/gridwords/pkg/http/usecases"
	"github.com/lintang-b-s/gridwords/pkg/logger"
	"github.com/lintang-b-s/gridwords/pkg/util"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Globals struct {
	Config string `help:"Directory holding config.yaml" default:"./data" type:"path"`
	Debug  bool   `help:"Verbose logging"`

	log *zap.Logger
}

// setup reads the config and builds the geocoder shared by every command.
func (g *Globals) setup(level zapcore.Level) (*geocoder.Geocoder, error) {
	if g.Debug {
		level = zapcore.DebugLevel
	}
	log, err := logger.NewDevelopment(level)
	if err != nil {
		return nil, err
	}
	g.log = log

	if err := util.ReadConfig(g.Config); err != nil {
		return nil, err
	}
	cfg, err := geocoder.LoadConfig()
	if err != nil {
		return nil, err
	}
	vocab, err := geocoder.LoadVocabulary(cfg)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	return geocoder.New(cfg, vocab, log)
}

type WordFlags struct {
	W1 string `name:"w1" help:"First word"`
	W2 string `name:"w2" help:"Second word"`
	W3 string `name:"w3" help:"Third word"`
}

func (w WordFlags) words() []string {
	if w.W1 == "" && w.W2 == "" && w.W3 == "" {
		return nil
	}
	return []string{w.W1, w.W2, w.W3}
}

type EncodeCmd struct {
	Lat    float64 `required:"" help:"Latitude in degrees"`
	Lon    float64 `required:"" help:"Longitude in degrees"`
	Scheme string  `help:"vocabulary, synthetic, decorative or freeform. freeform when words are given"`
	WordFlags
}

func (c *EncodeCmd) Run(g *Globals, ctx *kong.Context) error {
	gc, err := g.setup(zapcore.WarnLevel)
	if err != nil {
		return err
	}

	words := c.words()
	scheme := c.Scheme
	if scheme == "" && words != nil {
		scheme = codec.SchemeFreeform.String()
	}
	s, err := codec.ParseScheme(scheme)
	if err != nil {
		return err
	}

	res, err := gc.Encode(c.Lat, c.Lon, s, geocoder.EncodeOptions{Words: words})
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Stdout, res.Address())
	if rep := res.Report; rep != nil {
		fmt.Fprintf(ctx.Stdout, "words point at %.7f, %.7f\n", rep.Derived.Lat, rep.Derived.Lon)
		fmt.Fprintf(ctx.Stdout, "distance %.1f m, bearing %.1f deg, threshold %.1f m\n",
			rep.DistanceMeters, rep.BearingDegrees, rep.ThresholdM)
		if rep.Consistent {
			fmt.Fprintln(ctx.Stdout, "consistent")
		} else {
			fmt.Fprintln(ctx.Stdout, "inconsistent")
		}
	}
	return nil
}

type DecodeCmd struct {
	Address string `help:"Dotted address w1.w2.w3, used when --w1..--w3 are absent"`
	Scheme  string `help:"vocabulary, synthetic, decorative or freeform" default:"vocabulary"`
	WordFlags
}

func (c *DecodeCmd) Run(g *Globals, ctx *kong.Context) error {
	words := c.words()
	if words == nil && c.Address == "" {
		return fmt.Errorf("either --w1 --w2 --w3 or --address is required")
	}

	gc, err := g.setup(zapcore.WarnLevel)
	if err != nil {
		return err
	}
	s, err := codec.ParseScheme(c.Scheme)
	if err != nil {
		return err
	}

	var res *geocoder.DecodeResult
	if words != nil {
		res, err = gc.Decode(words, s)
	} else {
		res, err = gc.DecodeAddress(c.Address, s)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "%.7f, %.7f\n", res.Coordinate.Lat, res.Coordinate.Lon)
	return nil
}

type CustomCmd struct {
	WordFlags
}

func (c *CustomCmd) Run(g *Globals, ctx *kong.Context) error {
	gc, err := g.setup(zapcore.WarnLevel)
	if err != nil {
		return err
	}
	p, err := gc.Custom([]string{c.W1, c.W2, c.W3})
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stdout, "%.7f, %.7f\n", p.Lat, p.Lon)
	return nil
}

type ServeCmd struct {
	RateLimit bool `help:"Enable the per process rate limiter"`
	Workers   int  `help:"Batch encode workers, 0 means GOMAXPROCS" default:"0"`
}

func (c *ServeCmd) Run(g *Globals) error {
	gc, err := g.setup(zapcore.InfoLevel)
	if err != nil {
		return err
	}

	ctx, stop := http.GracefulShutdown(context.Background())
	defer stop()

	service := usecases.NewGeocodingService(g.log, gc, c.Workers)
	srv, err := http.NewServer(g.log).Use(ctx, c.RateLimit, service)
	if err != nil {
		return err
	}
	err = srv.Wait()
	g.log.Info("gridwords server stopped")
	return err
}

type CLI struct {
	Globals

	Encode EncodeCmd `cmd:"" help:"Encode a coordinate into three words"`
	Decode DecodeCmd `cmd:"" help:"Decode three words into a coordinate"`
	Custom CustomCmd `cmd:"" help:"Hash three arbitrary words to a coordinate"`
	Serve  ServeCmd  `cmd:"" help:"Run the HTTP API"`
}

func run(args []string, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("gridwords"),
		kong.Description("Deterministic three word geocoder"),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	if err != nil {
		return err
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer func() {
		if cli.log != nil {
			_ = cli.log.Sync()
		}
	}()
	return ctx.Run(&cli.Globals)
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "gridwords:", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
