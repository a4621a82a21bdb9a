package core

import (
	"log"
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
)

type GameLoop struct {
	server   *Server
	period   time.Duration
	stopChan chan struct{}
	stopped  chan struct{}
}

func NewGameLoop(server *Server, period time.Duration) *GameLoop {
	return &GameLoop{
		server:   server,
		period:   period,
		stopChan: make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	defer close(g.stopped)
	ticker := time.NewTicker(g.period)
	defer ticker.Stop()

	log.Printf("[server] game loop started, one frame every %s", g.period)

	for {
		select {
		case <-g.stopChan:
			log.Println("[server] game loop stopped")
			return
		case now := <-ticker.C:
			g.tick(now)
		}
	}
}

// Stop ends Run and waits for the current tick. Stopping twice is a no-op.
func (g *GameLoop) Stop() {
	select {
	case <-g.stopChan:
	default:
		close(g.stopChan)
	}
	<-g.stopped
}

func (g *GameLoop) tick(now time.Time) {
	g.server.tick(now)

	if err := srvsync.DoSync(); err != nil {
		log.Printf("[server] sync error: %v", err)
	}
}
