package cmd

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/LdDl/strokematch/internal/config"
	"github.com/LdDl/strokematch/internal/dictionary"
	"github.com/LdDl/strokematch/strokematch"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	strokesPath string
	characterID string
	entryIndex  int
	seed        uint64
	trials      int
	detail      int
	stepDecay   float64
	workers     int
	batchSize   int
	smooth      bool
	worstCount  int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fit reference character to drawn strokes and score the result",
	RunE:  checkStrokes,
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score drawn strokes against untransformed reference character",
	RunE:  scoreStrokes,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(scoreCmd)

	for _, c := range []*cobra.Command{checkCmd, scoreCmd} {
		c.Flags().StringVarP(&strokesPath, "strokes", "s", "", "Path to drawn strokes: [[[x, y], ...], ...]")
		c.Flags().StringVarP(&characterID, "character", "c", "", "Reference character to compare with")
		c.Flags().IntVarP(&entryIndex, "index", "i", -1, "Dictionary entry index to compare with (random when neither --character nor --index given)")
		c.Flags().Uint64Var(&seed, "seed", 0, "Seed for random choices, 0 means seed from clock")
		c.Flags().IntVar(&detail, "detail", 0, "Samples per stroke")
		c.Flags().BoolVar(&smooth, "smooth", false, "Smooth drawn strokes with Kalman filter")
		c.Flags().IntVar(&worstCount, "worst", 5, "Number of worst samples to report")
		c.MarkFlagRequired("strokes")
	}
	checkCmd.Flags().IntVarP(&trials, "trials", "t", 0, "Number of search trials")
	checkCmd.Flags().Float64Var(&stepDecay, "decay", 0, "Step multiplier applied on every improvement, 1 keeps step constant")
	checkCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of parallel search workers")
	checkCmd.Flags().IntVar(&batchSize, "batch", 256, "Candidates per worker per round in parallel mode")
}

type checkOutput struct {
	*strokematch.CheckResult
	Worst []strokematch.SampleRef `json:"worst"`
}

type scoreOutput struct {
	Character string                   `json:"character"`
	Result    *strokematch.ScoreResult `json:"result"`
	Worst     []strokematch.SampleRef  `json:"worst"`
}

// applyFlags overrides settings with flags given explicitly
func applyFlags(cmd *cobra.Command, settings *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("trials") {
		settings.Trials = trials
	}
	if flags.Changed("detail") {
		settings.Detail = detail
	}
	if flags.Changed("decay") {
		settings.StepDecay = stepDecay
	}
	if flags.Changed("workers") {
		settings.Workers = workers
	}
	if flags.Changed("smooth") {
		settings.Smooth = smooth
	}
}

func effectiveSeed() uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}

func pickCharacter(characters []strokematch.Character, rng *rand.Rand) (strokematch.Character, error) {
	switch {
	case characterID != "":
		return dictionary.Find(characters, characterID)
	case entryIndex >= 0:
		if entryIndex >= len(characters) {
			return strokematch.Character{}, errors.Errorf("index %d is out of range, dictionary has %d entries", entryIndex, len(characters))
		}
		return characters[entryIndex], nil
	default:
		return dictionary.Pick(characters, rng)
	}
}

// newSession loads dictionary and drawn strokes and fills session with them
func newSession(settings *config.Settings, rng *rand.Rand) (*strokematch.Session, error) {
	characters, err := loadDictionary()
	if err != nil {
		return nil, err
	}
	character, err := pickCharacter(characters, rng)
	if err != nil {
		return nil, err
	}
	strokes, err := dictionary.LoadStrokesFile(strokesPath)
	if err != nil {
		return nil, errors.Wrapf(err, "strokes '%s'", strokesPath)
	}
	var smoother *strokematch.Smoother
	if settings.Smooth {
		smoother = strokematch.NewSmootherDefault()
	}
	session, err := strokematch.NewSessionWithSmoother(character, smoother)
	if err != nil {
		return nil, err
	}
	for _, stroke := range strokes {
		if err := session.AddStroke(stroke); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func checkStrokes(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyFlags(cmd, settings)
	runSeed := effectiveSeed()
	session, err := newSession(settings, rand.New(rand.NewPCG(runSeed, 0)))
	if err != nil {
		return err
	}

	searcher, err := strokematch.NewSearcher(
		strokematch.WithTrials(settings.Trials),
		strokematch.WithDetail(settings.Detail),
		strokematch.WithStepDecay(settings.StepDecay),
		strokematch.WithWorkers(settings.Workers, batchSize),
		strokematch.WithSeed(runSeed),
		strokematch.WithProgress(settings.Trials/10+1, func(p strokematch.Progress) {
			strokematch.Logger().Info("search progress", "trial", p.Trial, "of", p.Trials, "score", p.BestScore)
		}),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	result, err := session.Check(ctx, searcher)
	if err != nil {
		return err
	}
	return printJSON(cmd, checkOutput{
		CheckResult: result,
		Worst:       result.Result.WorstSamples(worstCount),
	})
}

func scoreStrokes(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyFlags(cmd, settings)
	session, err := newSession(settings, rand.New(rand.NewPCG(effectiveSeed(), 0)))
	if err != nil {
		return err
	}
	scorer, err := strokematch.NewScorer(settings.Detail)
	if err != nil {
		return err
	}
	result, err := session.Score(scorer)
	if err != nil {
		return err
	}
	return printJSON(cmd, scoreOutput{
		Character: session.Character().ID,
		Result:    result,
		Worst:     result.WorstSamples(worstCount),
	})
}
