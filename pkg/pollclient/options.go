package pollclient

import (
	"time"

	"github.com/andreyxaxa/Photo-Importer/internal/dto"
)

type Option func(*Poller)

func Interval(interval time.Duration) Option {
	return func(p *Poller) {
		p.interval = interval
	}
}

// OnUpdate is called after every tick with the latest snapshot.
func OnUpdate(f func(Snapshot)) Option {
	return func(p *Poller) {
		p.onUpdate = f
	}
}

// OnComplete is called exactly once, when the session first reports the
// complete phase.
func OnComplete(f func(dto.SessionProgress)) Option {
	return func(p *Poller) {
		p.onComplete = f
	}
}
