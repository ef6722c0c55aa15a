package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"addrvec/config"
	"addrvec/internal/adapter/charenc"
	"addrvec/internal/adapter/dataset"
	"addrvec/internal/adapter/nn"
	"addrvec/internal/adapter/sampler"
	"addrvec/internal/adapter/store"
	"addrvec/internal/usecase"
)

var trainEpochs int

var trainCmd = &cobra.Command{
	Use:   "train [path]",
	Short: "Train the address encoder",
	Long: `Build anchor/positive/negative triplets from the address data and train
the character-level encoder with the triplet cosine margin loss. The
trained weights are stored in .addrvec/model.db within the data directory.

Examples:
  addrvec train .                 # Train on the current directory's data
  addrvec train /path/to/data     # Train on a specific directory
  addrvec train . --epochs 20     # Override the configured epoch count`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().IntVar(&trainEpochs, "epochs", 0, "number of epochs (default from config)")
}

func runTrain(cmd *cobra.Command, args []string) error {
	path, err := resolveDataDir(args)
	if err != nil {
		return err
	}

	cfg := GetConfig()

	records, err := loadRecords(cfg, path)
	if err != nil {
		return err
	}
	stats := dataset.Stats(records, 0)
	fmt.Printf("Loaded %d records in %d groups (%d usable anchors)\n", stats.Records, stats.Groups, stats.UsableAnchors)

	epochs := cfg.Train.Epochs
	if trainEpochs > 0 {
		epochs = trainEpochs
	}

	net := nn.New(nn.Config{
		MaxLength:    cfg.Encoder.MaxLength,
		EmbeddingDim: cfg.Encoder.EmbeddingDim,
		HiddenDim:    cfg.Encoder.HiddenDim,
		OutputDim:    cfg.Encoder.OutputDim,
		VocabSize:    charenc.VocabSize,
	}, cfg.Train.Seed)
	trainer := nn.NewTrainer(net, cfg.Train.Margin, cfg.Train.LearningRate, cfg.Train.Seed)
	smp := sampler.New(cfg.Sampler.NegativesPerAnchor, cfg.Sampler.Seed)
	trainUC := usecase.NewTrainUseCase(smp, net, trainer, epochs, cfg.Train.BatchSize)

	var bar *progressbar.ProgressBar
	var startTime time.Time
	var currentEpoch int

	progress := func(epoch, done, total int) {
		if bar == nil || epoch != currentEpoch {
			startTime = time.Now()
			currentEpoch = epoch
			bar = newProgressBar(total, fmt.Sprintf("[cyan]Epoch %d/%d[reset]", epoch, epochs))
		}
		bar.Set(done)

		if done > 0 {
			elapsed := time.Since(startTime)
			rate := float64(done) / elapsed.Seconds()
			if remaining := total - done; remaining > 0 && rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Epoch %d/%d[reset] ETA: %s", epoch, epochs, formatDuration(eta)))
			}
		}
	}

	result, err := trainUC.Train(records, progress)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	st, err := openModelStore(path, true)
	if err != nil {
		return err
	}
	defer st.Close()

	err = st.SaveCheckpoint(store.LatestCheckpoint, store.Checkpoint{
		Config:    net.Config(),
		Weights:   net.Params(),
		Epochs:    result.Epochs,
		FinalLoss: result.FinalLoss,
	})
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	fmt.Printf("\nTraining complete:\n")
	fmt.Printf("  Triplets:   %d\n", result.Triplets)
	fmt.Printf("  Epochs:     %d\n", result.Epochs)
	for i, loss := range result.EpochLosses {
		fmt.Printf("  Epoch %2d loss: %.4f\n", i+1, loss)
	}

	fmt.Printf("\nModel stored at: %s\n", config.ModelDBPath(path))
	return nil
}
