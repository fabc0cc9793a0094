// Replays the list, insert, list, delete, list sequence against a live server.

package smoke

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maruel/discdb/internal/discs"
)

// Probe is the record inserted then deleted by Run.
var Probe = discs.Record{
	FilmName:      "prueba3",
	RotationType:  discs.RotationCLV,
	Region:        "Asia",
	LengthMinutes: 60,
	VideoFormat:   discs.FormatNTSC,
}

// WaitReady polls the health endpoint until it answers or ctx is done.
func WaitReady(ctx context.Context, c *Client, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		err := c.Health(ctx)
		if err == nil {
			return nil
		}
		slog.DebugContext(ctx, "Server not ready", "err", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("server never became ready: %w", errors.Join(ctx.Err(), err))
		case <-t.C:
		}
	}
}

// Run lists the records, inserts [Probe], lists again, deletes the inserted
// record and lists a last time. It fails on the first unexpected response.
func Run(ctx context.Context, c *Client) error {
	before, err := c.List(ctx)
	if err != nil {
		return fmt.Errorf("initial list: %w", err)
	}
	slog.InfoContext(ctx, "Discs before insert", "count", len(before))

	created, err := c.Create(ctx, &Probe)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	slog.InfoContext(ctx, "Disc inserted", "id", created.ID)
	want := Probe
	want.ID = created.ID
	if *created != want {
		return fmt.Errorf("insert returned %+v, want %+v", *created, want)
	}

	afterInsert, err := c.List(ctx)
	if err != nil {
		return fmt.Errorf("list after insert: %w", err)
	}
	if len(afterInsert) != len(before)+1 {
		return fmt.Errorf("list after insert has %d records, want %d", len(afterInsert), len(before)+1)
	}
	if last := afterInsert[len(afterInsert)-1]; last != want {
		return fmt.Errorf("last record is %+v, want %+v", last, want)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		return fmt.Errorf("delete %d: %w", created.ID, err)
	}
	slog.InfoContext(ctx, "Disc deleted", "id", created.ID)

	afterDelete, err := c.List(ctx)
	if err != nil {
		return fmt.Errorf("list after delete: %w", err)
	}
	// Deleting by id also removes older records sharing the id.
	for _, r := range afterDelete {
		if r.ID == created.ID {
			return fmt.Errorf("record %d still present after delete", created.ID)
		}
	}
	slog.InfoContext(ctx, "Discs after delete", "count", len(afterDelete))
	return nil
}
