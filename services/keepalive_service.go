package services

import (
	"log"
	"time"

	"github.com/Amiththillenkery/ammafreshghee/models"
	"gorm.io/gorm"
)

const (
	keepAliveInterval = 3 * time.Minute
	keepAliveMaxCount = 100
)

// KeepAliveService periodically touches a counter row so free-tier database
// hosting doesn't put the instance to sleep. Failures are logged only.
type KeepAliveService struct {
	db       *gorm.DB
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewKeepAliveService creates a keep-alive service on the given database
func NewKeepAliveService(db *gorm.DB) *KeepAliveService {
	return &KeepAliveService{
		db:       db,
		interval: keepAliveInterval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the counter update loop in a background goroutine
func (s *KeepAliveService) Start() {
	log.Printf("Keep-alive service started (every %s)", s.interval)

	go func() {
		defer close(s.done)

		// Run immediately on start, then on the ticker
		s.updateCounter()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.updateCounter()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the loop and waits for it to finish
func (s *KeepAliveService) Stop() {
	close(s.stop)
	<-s.done
	log.Println("Keep-alive service stopped")
}

func (s *KeepAliveService) updateCounter() {
	var record models.KeepAlive
	err := s.db.First(&record).Error
	if err == gorm.ErrRecordNotFound {
		if err := s.db.Create(&models.KeepAlive{Count: 1}).Error; err != nil {
			log.Printf("Keep-alive: failed to initialize counter: %v", err)
		}
		return
	}
	if err != nil {
		log.Printf("Keep-alive: failed to read counter: %v", err)
		return
	}

	record.Count++
	if record.Count > keepAliveMaxCount {
		record.Count = 1
	}

	if err := s.db.Save(&record).Error; err != nil {
		log.Printf("Keep-alive: failed to update counter: %v", err)
	}
}
