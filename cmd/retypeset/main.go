package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tsawler/retypeset"
	"github.com/tsawler/retypeset/font"
	"github.com/tsawler/retypeset/internal/logutils"
	"github.com/tsawler/retypeset/layout"
	"github.com/tsawler/retypeset/model"
	"github.com/tsawler/retypeset/ocr"
	"github.com/tsawler/retypeset/render"
	"github.com/tsawler/retypeset/translate"
)

type detectCmd struct {
	Image   string `arg:"positional,required" help:"page image to recognize"`
	MaxSide int    `arg:"--max-side" default:"0" help:"downscale before OCR so no side exceeds this; coordinates are mapped back"`
	Lang    string `arg:"--lang,env:RETYPESET_OCR_LANG" default:"eng"`
	PSM     int    `arg:"--psm,env:RETYPESET_OCR_PSM" default:"11" help:"Tesseract page segmentation mode; 11 finds sparse text such as balloons"`
}

type regionsCmd struct {
	Input string `arg:"positional,required" help:"PaddleOCR JSON result"`
}

type cropsCmd struct {
	Input  string `arg:"positional,required" help:"PaddleOCR JSON result"`
	Image  string `arg:"-i,--image,required" help:"page image the result was computed on"`
	OutDir string `arg:"-o,--out,required" help:"directory for cluster_<i>.png crops"`
}

type renderCmd struct {
	Input  string `arg:"positional,required" help:"PaddleOCR JSON result"`
	Image  string `arg:"-i,--image,required" help:"page image the result was computed on"`
	Output string `arg:"-o,--out,required" help:"output PNG"`

	FontFile    string  `arg:"--font,env:RETYPESET_FONT" help:"TTF/OTF file; the built-in Go font is used when empty"`
	StartSize   int     `arg:"--start-size" default:"0" help:"largest font size; 0 starts at each region's height"`
	MinSize     int     `arg:"--min-size" default:"0"`
	Margin      float64 `arg:"--margin" default:"2"`
	LineSpacing float64 `arg:"--line-spacing" default:"-20" help:"line gap as a percentage of line height"`
	Workers     int     `arg:"-w,--workers" default:"0"`

	Translate  bool   `arg:"-t,--translate" help:"translate region text before drawing"`
	Model      string `arg:"--model,env:RETYPESET_MODEL" default:"gpt-4o-mini"`
	APIKey     string `arg:"--api-key,env:OPENAI_API_KEY"`
	BaseURL    string `arg:"--base-url,env:OPENAI_BASE_URL" help:"OpenAI-compatible endpoint, e.g. http://localhost:11434/v1 for Ollama"`
	SourceLang string `arg:"--source-lang" default:"English"`
	TargetLang string `arg:"--target-lang" default:"French"`
	Context    string `arg:"--context" default:"dialogue from a webtoon"`
	KeepCase   bool   `arg:"--keep-case" help:"do not upper-case translations"`
}

type cliArgs struct {
	Detect  *detectCmd  `arg:"subcommand:detect" help:"run Tesseract on an image and print PaddleOCR-style JSON"`
	Regions *regionsCmd `arg:"subcommand:regions" help:"print clustered regions as JSON"`
	Crops   *cropsCmd   `arg:"subcommand:crops" help:"save one crop per region"`
	Render  *renderCmd  `arg:"subcommand:render" help:"replace region text and save the page"`

	MinScore     float64 `arg:"--min-score,env:RETYPESET_MIN_SCORE" default:"0.5"`
	MarginFactor float64 `arg:"--margin-factor,env:RETYPESET_MARGIN_FACTOR" default:"0.1"`
	LogLevel     string  `arg:"--log-level,env:LOG_LEVEL" default:"info"`
}

var log = logrus.New()

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("load .env: %v", err)
	}

	var args cliArgs
	p := arg.MustParse(&args)
	logutils.SetLoggerLevel(log, args.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch {
	case args.Detect != nil:
		err = runDetect(args.Detect, os.Stdout)
	case args.Regions != nil:
		err = runRegions(&args, args.Regions, os.Stdout)
	case args.Crops != nil:
		err = runCrops(&args, args.Crops)
	case args.Render != nil:
		err = runRender(ctx, &args, args.Render)
	default:
		p.WriteHelp(os.Stderr)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

// page builds the configured page for a PaddleOCR result.
func page(args *cliArgs, input string) *retypeset.Page {
	return retypeset.OpenPaddle(input).
		MinScore(args.MinScore).
		MarginFactor(args.MarginFactor).
		Logger(log)
}

func logWarnings(warnings []retypeset.Warning) {
	for _, w := range warnings {
		log.Warn(w.String())
	}
}

func runDetect(cmd *detectCmd, w io.Writer) error {
	img, factor, err := render.Load(cmd.Image, cmd.MaxSide)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode image for OCR: %w", err)
	}

	client, err := ocr.New()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.SetLanguage(cmd.Lang); err != nil {
		return fmt.Errorf("set OCR language: %w", err)
	}
	if err := client.SetPageSegMode(ocr.PageSegMode(cmd.PSM)); err != nil {
		return fmt.Errorf("set page segmentation mode: %w", err)
	}
	dets, err := client.Detect(buf.Bytes())
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"lines": len(dets), "factor": factor}).Info("detected text")

	if factor != 1 {
		for i := range dets {
			dets[i] = dets[i].Scaled(factor)
		}
	}
	return ocr.EncodePaddle(w, dets)
}

func runRegions(args *cliArgs, cmd *regionsCmd, w io.Writer) error {
	regions, warnings, err := page(args, cmd.Input).Regions()
	if err != nil {
		return err
	}
	logWarnings(warnings)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(regions)
}

func runCrops(args *cliArgs, cmd *cropsCmd) error {
	regions, warnings, err := page(args, cmd.Input).Regions()
	if err != nil {
		return err
	}
	logWarnings(warnings)

	img, _, err := render.Load(cmd.Image, 0)
	if err != nil {
		return err
	}
	paths, err := render.SaveCrops(cmd.OutDir, img, regions)
	for _, path := range paths {
		log.Infof("saved %s", path)
	}
	return err
}

func runRender(ctx context.Context, args *cliArgs, cmd *renderCmd) error {
	provider, family, err := loadFont(cmd.FontFile)
	if err != nil {
		return err
	}
	defer provider.Close()

	pg := page(args, cmd.Input).
		Family(family).
		FontSizes(cmd.StartSize, cmd.MinSize).
		Margin(cmd.Margin).
		LineSpacing(cmd.LineSpacing).
		Workers(cmd.Workers)

	var (
		regions  []model.RegionBox
		warnings []retypeset.Warning
	)
	if cmd.Translate {
		tr, err := newTranslator(ctx, cmd)
		if err != nil {
			return err
		}
		regions, warnings, err = pg.Translate(ctx, tr, translate.NewHistory(0))
		if err != nil {
			return err
		}
	} else {
		regions, warnings, err = pg.Regions()
		if err != nil {
			return err
		}
	}
	logWarnings(warnings)

	layouts, warnings, err := pg.Layout(ctx, layout.NewEngine(provider), regions)
	if err != nil {
		return err
	}
	logWarnings(warnings)

	dst, _, err := render.Load(cmd.Image, 0)
	if err != nil {
		return err
	}
	if err := pg.Render(dst, provider, layouts); err != nil {
		return err
	}

	if err := render.SavePNG(cmd.Output, dst); err != nil {
		return err
	}
	log.WithField("regions", len(layouts)).Infof("saved %s", cmd.Output)
	return nil
}

// loadFont returns a provider holding the requested font and its family
// name.
func loadFont(path string) (*font.Provider, string, error) {
	if path == "" {
		return font.NewDefaultProvider(), font.FamilyGoRegular, nil
	}
	p := font.NewProvider()
	const family = "custom"
	if err := p.RegisterFile(family, path); err != nil {
		return nil, "", err
	}
	return p, family, nil
}

func newTranslator(ctx context.Context, cmd *renderCmd) (translate.Translator, error) {
	chatModel, err := translate.NewOpenAI(ctx, translate.OpenAIConfig{
		Model:   cmd.Model,
		APIKey:  cmd.APIKey,
		BaseURL: cmd.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	var tr translate.Translator = translate.NewChatTranslator(chatModel,
		translate.WithLanguages(cmd.SourceLang, cmd.TargetLang),
		translate.WithContext(cmd.Context),
	)
	if !cmd.KeepCase {
		tr = translate.Upper(tr)
	}
	return tr, nil
}
