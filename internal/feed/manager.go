package feed

import (
	"context"
	"log"
	"sync"
	"time"

	"traindash/internal/models"
	"traindash/internal/store"
)

// Manager runs the background fetch cycle and publishes each cycle's views
// to the store. The wait between cycles is recomputed every time so the
// cadence can follow presence and the night window.
type Manager struct {
	aggregator *Aggregator
	store      *store.Store
	stations   []models.StationConfig
	interval   func() time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewManager creates a feed manager. interval is consulted after every
// cycle for the next wait.
func NewManager(aggregator *Aggregator, store *store.Store, stations []models.StationConfig, interval func() time.Duration) *Manager {
	return &Manager{
		aggregator: aggregator,
		store:      store,
		stations:   stations,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the update loop.
func (m *Manager) Start() {
	m.wg.Add(1)
	go m.updateLoop()
}

// Stop stops the update loop and waits for it to exit.
func (m *Manager) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *Manager) updateLoop() {
	defer m.wg.Done()

	if err := m.update(); err != nil {
		log.Printf("Initial update failed: %v", err)
	}

	timer := time.NewTimer(m.interval())
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			if err := m.update(); err != nil {
				log.Printf("Update failed: %v", err)
			}
			timer.Reset(m.interval())
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) update() error {
	views, err := m.aggregator.GetArrivals(context.Background(), m.stations)
	if err != nil {
		return err
	}

	m.store.Update(views)
	return nil
}
