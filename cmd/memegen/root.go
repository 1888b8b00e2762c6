package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hunny44/memegeneratorAI/config"
	"github.com/hunny44/memegeneratorAI/internal/appServer"
	"github.com/hunny44/memegeneratorAI/internal/entity"
	"github.com/hunny44/memegeneratorAI/internal/pkg/updater"
	"github.com/hunny44/memegeneratorAI/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// задается при сборке через -ldflags "-X main.version=..."
var version = "1.0.5"

type options struct {
	geminiKey                string
	openAIKey                string
	clipDropKey              string
	stabilityKey             string
	userPrompt               string
	memeCount                int
	imagePlatform            string
	temperature              float32
	basicInstructions        string
	imageSpecialInstructions string
	noUserInput              bool
	noFileSave               bool
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&options{})
}

func buildRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "memegen",
		Short:         "Generate captioned memes with a chat model and an image generator",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, opts)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n  ERROR:  %v\n", err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.geminiKey, "gemini-key", "", "Gemini API key")
	f.StringVar(&opts.openAIKey, "openai-key", "", "OpenAI API key")
	f.StringVar(&opts.clipDropKey, "clipdrop-key", "", "ClipDrop API key")
	f.StringVar(&opts.stabilityKey, "stability-key", "", "Stability AI API key")
	f.StringVar(&opts.userPrompt, "user-prompt", "", "meme subject or concept")
	f.IntVar(&opts.memeCount, "meme-count", 1, "number of memes to create")
	f.StringVar(&opts.imagePlatform, "image-platform", "", "image platform: clipdrop or stability")
	f.Float32Var(&opts.temperature, "temperature", 0, "chat model temperature")
	f.StringVar(&opts.basicInstructions, "basic-instructions", "", "overall instructions for the chat model")
	f.StringVar(&opts.imageSpecialInstructions, "image-special-instructions", "", "special instructions for the image prompt")
	f.BoolVar(&opts.noUserInput, "no-user-input", false, "never prompt, use flags and defaults")
	f.BoolVar(&opts.noFileSave, "no-file-save", false, "do not write meme files or the log")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetOutput(cmd.ErrOrStderr())

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	applyFlags(cmd, opts, cfg)

	logrus.WithFields(maskedFields(appServer.CredentialsFromConfig(cfg))).Info("Loaded API keys (masked)")

	memes, err := appServer.NewMemeService(cfg, nil, nil)
	if err != nil {
		return err
	}
	// ключи и платформа проверяются до вопросов пользователю
	if _, err := memes.Normalize(entity.GenerationRequest{Count: 1, ImagePlatform: entity.ImagePlatform(cfg.App.ImagePlatform)}); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := cmd.OutOrStdout()
	if !opts.noUserInput {
		checkForUpdate(ctx, out, cfg.App.ReleaseChannel)
	}

	fmt.Fprintf(out, "\n==================== AI Meme Generator - %s ====================\n", version)

	req := entity.GenerationRequest{
		Topic:         opts.userPrompt,
		Count:         opts.memeCount,
		ImagePlatform: entity.ImagePlatform(cfg.App.ImagePlatform),
		NoFileSave:    cfg.App.NoFileSave,
	}

	if !opts.noUserInput {
		in := bufio.NewReader(cmd.InOrStdin())
		if !cmd.Flags().Changed("user-prompt") {
			req.Topic = askTopic(in, out)
		}
		if !cmd.Flags().Changed("meme-count") {
			if req.Count, err = askCount(in, out); err != nil {
				return err
			}
		}
	}

	results, err := memes.Generate(ctx, req)
	if err != nil {
		return err
	}

	for i, m := range results {
		fmt.Fprintln(out, "\n----------------------------------------------------------------------------------------------------")
		fmt.Fprintf(out, "Meme %d of %d\n", i+1, len(results))
		fmt.Fprintf(out, "   Meme Text:  %s\n", m.CaptionText)
		fmt.Fprintf(out, "   Image Prompt:  %s\n", m.ImagePrompt)
		if m.FilePath != "" {
			fmt.Fprintf(out, "   File:  %s\n", m.FilePath)
		}
	}

	if abs, err := filepath.Abs(cfg.App.OutputFolder); err == nil {
		fmt.Fprintf(out, "\n\nFinished. Output directory: %s\n", abs)
	}
	return nil
}

// applyFlags overrides config values with flags given on the command line.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("gemini-key") {
		cfg.Keys.Gemini = opts.geminiKey
	}
	if f.Changed("openai-key") {
		cfg.Keys.OpenAI = opts.openAIKey
	}
	if f.Changed("clipdrop-key") {
		cfg.Keys.ClipDrop = opts.clipDropKey
	}
	if f.Changed("stability-key") {
		cfg.Keys.Stability = opts.stabilityKey
	}
	if f.Changed("image-platform") {
		cfg.App.ImagePlatform = opts.imagePlatform
	}
	if f.Changed("temperature") {
		cfg.App.Temperature = opts.temperature
	}
	if f.Changed("basic-instructions") {
		cfg.App.BasicInstructions = opts.basicInstructions
	}
	if f.Changed("image-special-instructions") {
		cfg.App.ImageSpecialInstructions = opts.imageSpecialInstructions
	}
	if opts.noFileSave {
		cfg.App.NoFileSave = true
	}
}

func maskedFields(creds service.Credentials) logrus.Fields {
	fields := logrus.Fields{}
	for name, masked := range creds.Masked() {
		fields[name] = masked
	}
	return fields
}

func askTopic(in *bufio.Reader, out io.Writer) string {
	fmt.Fprintln(out, "\nEnter a meme subject or concept (Or just hit enter to let the AI decide)")
	fmt.Fprint(out, " >  ")
	line, _ := in.ReadString('\n')
	if topic := strings.TrimSpace(line); topic != "" {
		return topic
	}
	return entity.DefaultTopic
}

func askCount(in *bufio.Reader, out io.Writer) (int, error) {
	fmt.Fprintln(out, "\nEnter the number of memes to create (Or just hit Enter for 1): ")
	fmt.Fprint(out, " >  ")
	line, _ := in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return 1, nil
	}

	n, err := strconv.Atoi(line)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a positive number", entity.ErrInvalidInput, line)
	}
	return n, nil
}

func checkForUpdate(ctx context.Context, out io.Writer, channel string) {
	channel = strings.ToLower(channel)
	if channel != updater.ChannelStable && channel != updater.ChannelAll {
		return
	}

	fmt.Fprintln(out, "\nGetting info about latest updates...")
	res, err := updater.NewChecker().Check(ctx, version, channel)
	if err != nil {
		logrus.Warnf("Problem while checking for updates: %v", err)
		return
	}
	if !res.Available {
		return
	}

	fmt.Fprintln(out, "----------------------------- UPDATE AVAILABLE -------------------------------------------")
	if res.Beta {
		fmt.Fprintln(out, " A new beta version is available!")
	} else {
		fmt.Fprintln(out, " A new version is available!")
	}
	fmt.Fprintf(out, "     > Current Version: %s\n", res.Current)
	fmt.Fprintf(out, "     > Latest Version: %s\n", res.Latest)
	if res.Beta {
		fmt.Fprintln(out, "(To stop receiving beta releases, change the 'release_channel' setting in the config file)")
	}
	fmt.Fprintln(out, "------------------------------------------------------------------------------------------")
}
