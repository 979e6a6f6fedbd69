package wikipedia

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/fortuna/boreas/internal/store"
	"github.com/fortuna/boreas/internal/store/repository"
)

// Ingester fills in coordinates for arenas that still have none.
type Ingester struct {
	client *Client
	arenas *repository.ArenaRepository
	log    *logrus.Logger
}

func NewIngester(db *store.Database, client *Client, log *logrus.Logger) *Ingester {
	return &Ingester{
		client: client,
		arenas: repository.NewArenaRepository(db),
		log:    log,
	}
}

// UpdateMissing looks up every arena at 0,0 and stores what Wikipedia
// knows. Arenas whose page has no coordinates are skipped and retried on
// the next run.
func (i *Ingester) UpdateMissing(ctx context.Context) (int, error) {
	arenas, err := i.arenas.ListMissingCoordinates(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, arena := range arenas {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		lat, lon, err := i.client.FetchCoordinates(ctx, arena.Name)
		if err != nil {
			if errors.Is(err, ErrNoCoordinates) {
				i.log.Warnf("[wikipedia] ⚠️ No coordinates for %s", arena.Name)
			} else {
				i.log.Warnf("[wikipedia] ⚠️ Lookup failed for %s: %v", arena.Name, err)
			}
			continue
		}

		if err := i.arenas.UpdateCoordinates(ctx, arena.ID, lat, lon); err != nil {
			return updated, err
		}
		i.log.Infof("[wikipedia] ✓ %s at %.4f, %.4f", arena.Name, lat, lon)
		updated++
	}
	return updated, nil
}
