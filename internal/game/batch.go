package game

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Summary struct {
	Games       int     `json:"games"`
	Won         int     `json:"won"`
	Lost        int     `json:"lost"`
	Stuck       int     `json:"stuck"`
	SafeMoves   int     `json:"safe_moves"`
	RandomMoves int     `json:"random_moves"`
	WinRate     float64 `json:"win_rate"`
}

func (s *Summary) add(session *Session) {
	s.Games++
	switch session.Status() {
	case Won:
		s.Won++
	case Lost:
		s.Lost++
	default:
		s.Stuck++
	}
	safe, random := session.MoveCounts()
	s.SafeMoves += safe
	s.RandomMoves += random
	s.WinRate = float64(s.Won) / float64(s.Games)
}

/*
RunBatch plays games sessions with params, at most concurrency at a time.
Game i is seeded with seed+i, so a batch is reproducible. The first error
cancels the remaining games.
*/
func RunBatch(
	ctx context.Context,
	params Params, games, concurrency int, seed uint64,
	opts ...Option,
) (Summary, error) {
	if err := params.Validate(); err != nil {
		return Summary{}, err
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := range games {
		g.Go(func() error {
			session, err := NewSession(params, seed+uint64(i), opts...)
			if err != nil {
				return err
			}
			if err := session.Play(gCtx); err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			summary.add(session)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}

	Log.WithFields(logrus.Fields{
		"params":   params.String(),
		"games":    summary.Games,
		"won":      summary.Won,
		"win_rate": summary.WinRate,
	}).Info("batch done")
	return summary, nil
}
