package usecase

import (
	"fmt"

	"addrvec/internal/adapter/nn"
	"addrvec/internal/domain"
	"addrvec/internal/port"
)

// TrainProgress reports training progress: the current epoch (1-based) and
// how many triplets of the epoch have been consumed.
type TrainProgress func(epoch, done, total int)

// TrainUseCase samples triplets from the loaded records and fits the
// encoder for a fixed number of epochs. No validation split, no early
// stopping: the run takes whatever embedding the last epoch leaves behind.
type TrainUseCase struct {
	sampler   port.TripletSampler
	net       *nn.Network
	trainer   *nn.Trainer
	epochs    int
	batchSize int
}

// NewTrainUseCase wires a training run.
func NewTrainUseCase(sampler port.TripletSampler, net *nn.Network, trainer *nn.Trainer, epochs, batchSize int) *TrainUseCase {
	return &TrainUseCase{
		sampler:   sampler,
		net:       net,
		trainer:   trainer,
		epochs:    epochs,
		batchSize: batchSize,
	}
}

// Train builds triplets and runs the training loop.
func (uc *TrainUseCase) Train(records []domain.AddressRecord, progress TrainProgress) (domain.TrainResult, error) {
	triplets, err := uc.sampler.Sample(records)
	if err != nil {
		return domain.TrainResult{}, fmt.Errorf("triplet sampling failed: %w", err)
	}

	result := domain.TrainResult{
		Triplets:    len(triplets),
		Epochs:      uc.epochs,
		EpochLosses: make([]float64, 0, uc.epochs),
	}

	for epoch := 1; epoch <= uc.epochs; epoch++ {
		var onBatch func(done int)
		if progress != nil {
			e := epoch
			onBatch = func(done int) { progress(e, done, len(triplets)) }
		}
		loss := uc.trainer.TrainEpoch(triplets, uc.batchSize, onBatch)
		result.EpochLosses = append(result.EpochLosses, loss)
		result.FinalLoss = loss
	}

	return result, nil
}

// Network returns the encoder being trained.
func (uc *TrainUseCase) Network() *nn.Network {
	return uc.net
}
