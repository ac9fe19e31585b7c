package cli

import (
	"context"

	"github.com/draftbill/draftbill/internal/engine"
	"github.com/draftbill/draftbill/internal/schema"
	"github.com/draftbill/draftbill/internal/settings"
	"github.com/draftbill/draftbill/internal/store"
)

// runtime wires one command invocation: tenant settings, schema registry,
// the session database, and an engine over the restored batch. Every
// command is one conversational turn; mutating commands save the batch
// back before exiting.
type runtime struct {
	opts *RootOptions
	db   *store.DB
	eng  *engine.Engine
}

func openRuntime(ctx context.Context, opts *RootOptions) (*runtime, error) {
	tenant := settings.Defaults()
	if opts.Settings != "" {
		t, err := settings.LoadFile(opts.Settings)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "load tenant settings", err)
		}
		tenant = t
	}
	reg := schema.New(tenant)

	db, err := store.Open(opts.DBPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open session database", err)
	}
	s, turn, err := db.LoadSession(ctx, opts.Session, reg.Knows)
	if err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "load session", err)
	}

	eng := engine.New(s, reg, engine.WithTurn(turn+1))
	return &runtime{opts: opts, db: db, eng: eng}, nil
}

func (rt *runtime) save(ctx context.Context) error {
	if err := rt.db.SaveSession(ctx, rt.opts.Session, rt.eng.Store(), rt.eng.Turn()); err != nil {
		return WrapExitError(ExitCommandError, "save session", err)
	}
	return nil
}

func (rt *runtime) close() {
	rt.db.Close()
}
