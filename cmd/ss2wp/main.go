package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/ss2wp"
	"github.com/fwojciec/ss2wp/convert"
	"github.com/fwojciec/ss2wp/goquery"
	"github.com/fwojciec/ss2wp/htmltomarkdown"
	sshttp "github.com/fwojciec/ss2wp/http"
	"github.com/fwojciec/ss2wp/render"
	"github.com/fwojciec/ss2wp/rod"
	ssslog "github.com/fwojciec/ss2wp/slog"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if msg := ExitMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

// ExitMessage returns the text to print for an error returned by Run, or
// "" when the command has already reported it.
func ExitMessage(err error) string {
	var reported reportedError
	if err == nil || errors.As(err, &reported) {
		return ""
	}
	if ss2wp.ErrorCode(err) != ss2wp.EINTERNAL {
		return "error: " + ss2wp.ErrorMessage(err)
	}
	return err.Error()
}

// Main represents the program.
type Main struct {
	// ConfigPaths are YAML files read for flag defaults, in order.
	// Missing files are ignored.
	ConfigPaths []string

	// RetryDelays are the waits between page fetch attempts.
	// Nil disables retries.
	RetryDelays []time.Duration
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: defaultConfigPaths(),
		RetryDelays: sshttp.DefaultRetryDelays(),
	}
}

func defaultConfigPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, "ss2wp", "config.yaml")}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	URL    string `arg:"" help:"Squarespace blog post URL"`
	Output string `short:"o" default:"." env:"SS2WP_OUTPUT_DIR" help:"Base directory for the post folder"`

	PlaceholderImages  bool   `short:"P" env:"SS2WP_PLACEHOLDER_IMAGES" help:"Render images as a [[[ IMAGE ]]] marker paragraph"`
	SuppressFirstImage bool   `short:"s" env:"SS2WP_SUPPRESS_FIRST_IMAGE" help:"Omit the first image of the post (often the featured image)"`
	FilenameScheme     string `short:"n" default:"title-derived" enum:"unique-id,hash,title-derived" env:"SS2WP_FILENAME_SCHEME" help:"Image filename scheme (${enum})"`
	Target             string `default:"file" enum:"file,stdout" env:"SS2WP_TARGET" help:"Where the HTML goes (${enum})"`
	PrefixLength       int    `default:"10" env:"SS2WP_PREFIX_LENGTH" help:"Maximum title prefix length of title-derived image names"`
	FolderLength       int    `default:"15" env:"SS2WP_FOLDER_LENGTH" help:"Maximum length of the output folder name"`
	ImageDir           string `default:"images" env:"SS2WP_IMAGE_DIR" help:"Image directory relative to the HTML file"`

	Concurrency int           `short:"c" default:"4" env:"SS2WP_CONCURRENCY" help:"Concurrent image downloads"`
	RateLimit   float64       `default:"2" env:"SS2WP_RATE_LIMIT" help:"Image requests per second per host"`
	Timeout     time.Duration `short:"t" default:"30s" env:"SS2WP_TIMEOUT" help:"Timeout per request"`
	Browser     bool          `short:"b" env:"SS2WP_BROWSER" help:"Render the page with headless Chrome before extracting"`

	Preview bool            `short:"p" help:"Print the post as Markdown without writing files"`
	Verbose bool            `short:"v" env:"SS2WP_VERBOSE" help:"Log fetches and naming decisions to stderr"`
	Config  kong.ConfigFlag `help:"YAML file with flag defaults"`
}

// Options converts the parsed flags to conversion options.
func (c *CLI) Options() ss2wp.Options {
	return ss2wp.Options{
		PlaceholderImages:  c.PlaceholderImages,
		SuppressFirstImage: c.SuppressFirstImage,
		FilenameScheme:     ss2wp.FilenameScheme(c.FilenameScheme),
		OutputTarget:       ss2wp.OutputTarget(c.Target),
		PrefixLength:       c.PrefixLength,
		FolderLength:       c.FolderLength,
		ImageDir:           c.ImageDir,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("ss2wp"),
		kong.Description("Convert a Squarespace blog post to WordPress-ready HTML and local images"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(YAMLLoader, m.ConfigPaths...),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	opts := cli.Options()
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("%s", ss2wp.ErrorMessage(err))
	}

	// Wire dependencies
	httpFetcher := sshttp.NewFetcher(
		sshttp.WithTimeout(cli.Timeout),
		sshttp.WithRetryDelays(m.RetryDelays),
	)

	var pageFetcher ss2wp.Fetcher = httpFetcher
	if cli.Browser {
		rodFetcher, err := rod.NewFetcher(
			rod.WithFetchTimeout(cli.Timeout),
			rod.WithWaitSelector(goquery.ArticleSelector()),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		pageFetcher = rodFetcher
	}
	defer pageFetcher.Close()

	renderer, err := render.NewRendererFromOptions(opts)
	if err != nil {
		return fmt.Errorf("%s", ss2wp.ErrorMessage(err))
	}

	var (
		fetcher      ss2wp.Fetcher      = pageFetcher
		imageFetcher ss2wp.ImageFetcher = httpFetcher
		extractor    ss2wp.Extractor    = goquery.NewExtractor(goquery.WithSuppressFirstImage(opts.SuppressFirstImage))
		rend         ss2wp.Renderer     = renderer
	)
	if cli.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		fetcher = ssslog.NewLoggingFetcher(fetcher, logger)
		imageFetcher = ssslog.NewLoggingImageFetcher(imageFetcher, logger)
		extractor = ssslog.NewLoggingExtractor(extractor, logger)
		rend = ssslog.NewLoggingRenderer(rend, logger)
	}

	// A non-positive rate disables limiting.
	var limiter ss2wp.DomainLimiter
	if cli.RateLimit > 0 {
		limiter = convert.NewHostLimiter(cli.RateLimit, cli.Concurrency)
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Converter: &convert.Converter{
			Fetcher:      fetcher,
			ImageFetcher: imageFetcher,
			Extractor:    extractor,
			Renderer:     rend,
			RateLimiter:  limiter,
			Concurrency:  cli.Concurrency,
		},
		Markdown: htmltomarkdown.NewConverter(
			htmltomarkdown.WithImagePlaceholder(render.Placeholder, htmltomarkdown.DefaultImageMarker),
		),
	}

	cmd := &ConvertCmd{
		URL:     cli.URL,
		BaseDir: cli.Output,
		Options: opts,
		Preview: cli.Preview,
	}

	return cmd.Run(deps)
}
