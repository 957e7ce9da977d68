package models

import (
	"sync"
	"time"
)

// ProcessingState describes the stylization currently in flight, if any.
type ProcessingState struct {
	IsActive     bool
	CurrentStage string
	StartTime    time.Time
	LastDuration time.Duration
}

// ProcessingStateRepository tracks whether a stylization is running so a
// second request can be refused.
type ProcessingStateRepository struct {
	mu    sync.RWMutex
	state ProcessingState
}

func NewProcessingStateRepository() *ProcessingStateRepository {
	return &ProcessingStateRepository{}
}

func (psr *ProcessingStateRepository) GetState() ProcessingState {
	psr.mu.RLock()
	defer psr.mu.RUnlock()
	return psr.state
}

// TryStart marks processing active. It reports false if a run is already
// in progress.
func (psr *ProcessingStateRepository) TryStart(stage string) bool {
	psr.mu.Lock()
	defer psr.mu.Unlock()

	if psr.state.IsActive {
		return false
	}
	psr.state.IsActive = true
	psr.state.CurrentStage = stage
	psr.state.StartTime = time.Now()
	return true
}

func (psr *ProcessingStateRepository) UpdateStage(stage string) {
	psr.mu.Lock()
	defer psr.mu.Unlock()

	if psr.state.IsActive {
		psr.state.CurrentStage = stage
	}
}

// Complete ends the current run and records its duration.
func (psr *ProcessingStateRepository) Complete() time.Duration {
	psr.mu.Lock()
	defer psr.mu.Unlock()

	if !psr.state.IsActive {
		return 0
	}
	psr.state.LastDuration = time.Since(psr.state.StartTime)
	psr.state.IsActive = false
	psr.state.CurrentStage = ""
	return psr.state.LastDuration
}

func (psr *ProcessingStateRepository) IsProcessing() bool {
	psr.mu.RLock()
	defer psr.mu.RUnlock()
	return psr.state.IsActive
}
