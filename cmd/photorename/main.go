package main

import (
	"context"
	"errors"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/sbonar/photorename/internal/auth"
	"github.com/sbonar/photorename/internal/caption"
	"github.com/sbonar/photorename/internal/logging"
	"github.com/sbonar/photorename/internal/pipeline"
)

// CLI flags
var (
	recursiveFlag bool
	dryRunFlag    bool
	confirmFlag   bool
	initFlag      bool
	modelFlag     string
	maxWordsFlag  int
	tmpDirFlag    string
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "photorename [paths...]",
	Short: "AI-assisted photo renaming by capture date and caption",
	Long: `photorename renames photos to <date>_<caption>_<original name> using the
capture date from EXIF metadata (file modification time as fallback) and a
short AI-generated caption of the image.

Examples:
  photorename IMG_0001.JPG
  photorename ~/Pictures/vacation --recursive --dry-run
  photorename ./photos --confirm
  photorename --init   # validate API access, then exit`,
	Args: func(cmd *cobra.Command, args []string) error {
		if initFlag {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	Run: runMain,
}

func init() {
	rootCmd.Flags().BoolVarP(&recursiveFlag, "recursive", "r", false, "Descend into subdirectories")
	rootCmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "Compute and report the rename plan without touching the filesystem")
	rootCmd.Flags().BoolVarP(&confirmFlag, "confirm", "c", false, "Ask before renaming each file")
	rootCmd.Flags().BoolVar(&initFlag, "init", false, "Validate captioning model access and exit")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", caption.GetModelName(), "Gemini model to use for captioning")
	rootCmd.Flags().IntVar(&maxWordsFlag, "max-words", caption.DefaultMaxWords, "Maximum words kept from the generated caption")
	rootCmd.Flags().StringVar(&tmpDirFlag, "tmp-dir", "", "Directory for temporary conversion files (default: system temp)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	logging.NewStartupLogger("photorename").
		Config("model", modelFlag).
		Config("maxWords", strconv.Itoa(maxWordsFlag)).
		Config("tmpDir", tmpDirFlag).
		Feature("recursive", recursiveFlag).
		Feature("dryRun", dryRunFlag).
		Feature("confirm", confirmFlag).
		Log()

	ctx := context.Background()
	client := initGeminiClient(ctx)

	if initFlag {
		log.Info().Msg("Setup complete - captioning model is reachable")
		return
	}

	captioner := caption.NewGeminiCaptioner(client, modelFlag)
	adapter := caption.NewAdapter(captioner, caption.Config{
		TmpDir:   tmpDirFlag,
		MaxWords: maxWordsFlag,
	})

	runner := pipeline.New(adapter, pipeline.Options{
		Recursive: recursiveFlag,
		DryRun:    dryRunFlag,
		Confirm:   confirmFlag,
	})

	if _, err := runner.Run(ctx, args); err != nil {
		if errors.Is(err, pipeline.ErrNoInput) {
			log.Fatal().Msg("No valid input paths resolved")
		}
		log.Fatal().Err(err).Msg("Run failed")
	}
}

// initGeminiClient creates and validates a Gemini client, exiting fatally on
// failure. Validation runs a minimal API call so a missing or revoked key is
// reported before any file is touched.
func initGeminiClient(ctx context.Context) *genai.Client {
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to retrieve API key")
	}

	client, err := caption.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Gemini client")
	}

	if err := auth.ValidateAPIKey(ctx, client, modelFlag); err != nil {
		handleValidationError(err)
	}

	log.Info().Msg("API key validation complete - ready for operations")
	return client
}

// handleValidationError processes validation errors and exits with appropriate messaging.
func handleValidationError(err error) {
	var validationErr *auth.ValidationError
	if errors.As(err, &validationErr) {
		switch validationErr.Type {
		case auth.ErrTypeNoKey:
			log.Fatal().Msg("No API key configured. Set GEMINI_API_KEY or store one at ~/.photorename/credentials.gpg")
		case auth.ErrTypeInvalidKey:
			log.Fatal().Err(err).Msg("Invalid API key. Please check your API key and try again")
		case auth.ErrTypeNetworkError:
			log.Fatal().Err(err).Msg("Network error. Please check your internet connection")
		case auth.ErrTypeQuotaExceeded:
			log.Fatal().Err(err).Msg("API quota exceeded. Please try again later or check your usage limits")
		default:
			log.Fatal().Err(err).Msg("API key validation failed")
		}
	} else {
		log.Fatal().Err(err).Msg("unexpected error during API key validation")
	}
}
