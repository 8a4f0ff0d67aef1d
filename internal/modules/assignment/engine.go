// README: Assignment engine; matches confirmed orders to the nearest free delivery partner.
package assignment

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"quickbite/internal/config"
	"quickbite/internal/modules/order"
	"quickbite/internal/types"
)

type Engine struct {
	geo   GeoIndex
	store ClaimStore
	cfg   config.AssignmentConfig
	log   *logrus.Logger
}

func NewEngine(geo GeoIndex, store ClaimStore, cfg config.AssignmentConfig, log *logrus.Logger) *Engine {
	return &Engine{geo: geo, store: store, cfg: cfg, log: log}
}

// AssignNearest walks the nearest-first candidate list and claims the
// first partner whose availability flag it wins. Losing a claim race is
// not an error; the next-nearest candidate is tried. An empty or
// exhausted candidate list yields order.ErrNoPartnerAvailable and the
// order stays `confirmed`.
func (e *Engine) AssignNearest(ctx context.Context, orderID types.ID, loc types.Point) (types.ID, error) {
	candidates, err := e.geo.Nearby(ctx, loc, e.cfg.RadiusKm, e.cfg.MaxCandidates)
	if err != nil {
		return "", err
	}

	for _, partnerID := range candidates {
		claimed, err := e.store.ClaimAndBind(ctx, partnerID, orderID)
		if errors.Is(err, ErrOrderNotAssignable) {
			return "", order.ErrConflict
		}
		if err != nil {
			return "", err
		}
		if !claimed {
			// Another order won this partner between the geo query and
			// the claim; keep the index honest and move on.
			if rerr := e.geo.Remove(ctx, partnerID); rerr != nil {
				e.log.WithError(rerr).WithField("partner_id", partnerID).Warn("geo index cleanup failed")
			}
			continue
		}
		if rerr := e.geo.Remove(ctx, partnerID); rerr != nil {
			e.log.WithError(rerr).WithField("partner_id", partnerID).Warn("geo index remove failed")
		}
		e.log.WithFields(logrus.Fields{
			"order_id":   orderID,
			"partner_id": partnerID,
		}).Info("delivery partner assigned")
		return partnerID, nil
	}

	return "", order.ErrNoPartnerAvailable
}

// Release returns a partner to the free pool and the geo index.
// Safe to call more than once per completed order.
func (e *Engine) Release(ctx context.Context, partnerID types.ID) error {
	pos, err := e.store.Release(ctx, partnerID)
	if err != nil {
		return err
	}
	if err := e.geo.Add(ctx, partnerID, pos); err != nil {
		e.log.WithError(err).WithField("partner_id", partnerID).Warn("geo index re-add failed")
	}
	return nil
}
