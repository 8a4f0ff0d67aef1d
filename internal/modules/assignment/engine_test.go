// README: Assignment race tests (run with -race).
package assignment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"quickbite/internal/config"
	"quickbite/internal/modules/order"
	"quickbite/internal/types"
)

// memGeo is a fixed nearest-first candidate list with removal.
type memGeo struct {
	mu      sync.Mutex
	ranking []types.ID
	present map[types.ID]bool
}

func newMemGeo(ranking ...types.ID) *memGeo {
	g := &memGeo{ranking: ranking, present: make(map[types.ID]bool)}
	for _, id := range ranking {
		g.present[id] = true
	}
	return g
}

func (g *memGeo) Nearby(_ context.Context, _ types.Point, _ float64, limit int) ([]types.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []types.ID
	for _, id := range g.ranking {
		if g.present[id] {
			out = append(out, id)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (g *memGeo) Add(_ context.Context, id types.ID, _ types.Point) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.present[id] = true
	return nil
}

func (g *memGeo) Remove(_ context.Context, id types.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.present, id)
	return nil
}

type memPartnerRow struct {
	available bool
	orderID   *types.ID
	pos       types.Point
}

// memClaims mirrors the conditional-update semantics of the SQL claim:
// the flag flip and the order bind happen under one lock.
type memClaims struct {
	mu       sync.Mutex
	partners map[types.ID]*memPartnerRow
	bound    map[types.ID]types.ID // orderID → partnerID
}

func newMemClaims(partnerIDs ...types.ID) *memClaims {
	c := &memClaims{
		partners: make(map[types.ID]*memPartnerRow),
		bound:    make(map[types.ID]types.ID),
	}
	for _, id := range partnerIDs {
		c.partners[id] = &memPartnerRow{available: true}
	}
	return c
}

func (c *memClaims) ClaimAndBind(_ context.Context, partnerID, orderID types.ID) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.partners[partnerID]
	if !ok || !p.available {
		return false, nil
	}
	if _, taken := c.bound[orderID]; taken {
		return false, ErrOrderNotAssignable
	}
	p.available = false
	oid := orderID
	p.orderID = &oid
	c.bound[orderID] = partnerID
	return true, nil
}

func (c *memClaims) Release(_ context.Context, partnerID types.ID) (types.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.partners[partnerID]
	if !ok {
		return types.Point{}, ErrPartnerNotFound
	}
	if p.orderID != nil {
		delete(c.bound, *p.orderID)
	}
	p.available = true
	p.orderID = nil
	return p.pos, nil
}

func (c *memClaims) snapshot(partnerID types.ID) (available bool, orderID *types.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.partners[partnerID]
	return p.available, p.orderID
}

func testEngine(geo *memGeo, claims *memClaims) *Engine {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewEngine(geo, claims, config.AssignmentConfig{RadiusKm: 5, MaxCandidates: 10}, log)
}

func TestAssignNearestPicksFirstCandidate(t *testing.T) {
	ctx := context.Background()
	geo := newMemGeo("p1", "p2", "p3")
	claims := newMemClaims("p1", "p2", "p3")
	e := testEngine(geo, claims)

	got, err := e.AssignNearest(ctx, "o1", types.Point{Lat: 1, Lng: 1})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got != "p1" {
		t.Fatalf("partner = %s, want nearest p1", got)
	}
	if avail, oid := claims.snapshot("p1"); avail || oid == nil || *oid != "o1" {
		t.Fatalf("p1 should be busy with o1, got available=%v order=%v", avail, oid)
	}
	// claimed partner leaves the index
	if ids, _ := geo.Nearby(ctx, types.Point{}, 5, 10); len(ids) != 2 {
		t.Fatalf("index should hold 2 partners, got %d", len(ids))
	}
}

func TestAssignNearestSkipsBusyCandidates(t *testing.T) {
	ctx := context.Background()
	geo := newMemGeo("p1", "p2")
	claims := newMemClaims("p1", "p2")
	e := testEngine(geo, claims)

	// p1 is stale in the index: already claimed by another order
	if ok, _ := claims.ClaimAndBind(ctx, "p1", "other"); !ok {
		t.Fatal("setup claim failed")
	}

	got, err := e.AssignNearest(ctx, "o1", types.Point{})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got != "p2" {
		t.Fatalf("partner = %s, want fallback p2", got)
	}
	// the stale entry was cleaned up
	if ids, _ := geo.Nearby(ctx, types.Point{}, 5, 10); len(ids) != 0 {
		t.Fatalf("index should be empty, got %v", ids)
	}
}

func TestAssignNearestEmptyRadius(t *testing.T) {
	e := testEngine(newMemGeo(), newMemClaims())
	_, err := e.AssignNearest(context.Background(), "o1", types.Point{})
	if !errors.Is(err, order.ErrNoPartnerAvailable) {
		t.Fatalf("err = %v, want ErrNoPartnerAvailable", err)
	}
}

// N concurrent orders contend for a single free partner: exactly one
// wins, everyone else sees ErrNoPartnerAvailable, and the partner ends
// bound to exactly one order.
func TestConcurrentAssignSinglePartner(t *testing.T) {
	ctx := context.Background()
	geo := newMemGeo("p1")
	claims := newMemClaims("p1")
	e := testEngine(geo, claims)

	const n = 16
	var wg sync.WaitGroup
	winners := make(chan types.ID, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		orderID := types.ID(fmt.Sprintf("o%d", i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.AssignNearest(ctx, orderID, types.Point{}); err != nil {
				errs <- err
				return
			}
			winners <- orderID
		}()
	}
	wg.Wait()
	close(winners)
	close(errs)

	if len(winners) != 1 {
		t.Fatalf("winners = %d, want exactly 1", len(winners))
	}
	for err := range errs {
		if !errors.Is(err, order.ErrNoPartnerAvailable) {
			t.Fatalf("loser error = %v, want ErrNoPartnerAvailable", err)
		}
	}

	winner := <-winners
	avail, oid := claims.snapshot("p1")
	if oid != nil && *oid != winner {
		t.Fatalf("partner bound to %s, want winner %s", *oid, winner)
	}
	if avail || oid == nil {
		t.Fatalf("partner must be busy with the winning order, got available=%v order=%v", avail, oid)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	geo := newMemGeo("p1")
	claims := newMemClaims("p1")
	e := testEngine(geo, claims)

	if _, err := e.AssignNearest(ctx, "o1", types.Point{}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := e.Release(ctx, "p1"); err != nil {
			t.Fatalf("release #%d: %v", i+1, err)
		}
	}
	avail, oid := claims.snapshot("p1")
	if !avail || oid != nil {
		t.Fatalf("partner should be free, got available=%v order=%v", avail, oid)
	}
	// back in the index exactly once
	ids, _ := geo.Nearby(ctx, types.Point{}, 5, 10)
	if len(ids) != 1 || ids[0] != "p1" {
		t.Fatalf("index = %v, want [p1]", ids)
	}
}

func TestDoubleAssignSameOrderConflicts(t *testing.T) {
	ctx := context.Background()
	geo := newMemGeo("p1", "p2")
	claims := newMemClaims("p1", "p2")
	e := testEngine(geo, claims)

	if _, err := e.AssignNearest(ctx, "o1", types.Point{}); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	_, err := e.AssignNearest(ctx, "o1", types.Point{})
	if !errors.Is(err, order.ErrConflict) {
		t.Fatalf("second assign: err = %v, want ErrConflict", err)
	}
}
