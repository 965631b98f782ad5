package notifications

import (
	"context"
	"errors"
	"time"
)

// Stream emits a derivation immediately and again on every refresh tick until ctx is
// cancelled. A cancelled context ends the stream without error.
func (s *service) Stream(ctx context.Context, req Request, emit func(*Result) error) error {
	if emit == nil {
		return errors.New("emit callback required")
	}
	if err := s.emitOnce(ctx, req, emit); err != nil {
		return err
	}

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.emitOnce(ctx, req, emit); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

func (s *service) emitOnce(ctx context.Context, req Request, emit func(*Result) error) error {
	result, err := s.List(ctx, req)
	if err != nil {
		return err
	}
	return emit(result)
}
