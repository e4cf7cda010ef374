package main

import (
	"context"
	"fmt"

	"coinfixi/internal/api"
	"coinfixi/internal/journal"
	"coinfixi/internal/logging"
	"coinfixi/internal/session"
)

// env bundles what a command needs to talk to the API.
type env struct {
	store   *session.Store
	session *session.Session
	client  *api.Client
	journal *journal.Store // nil when disabled
}

func openEnv() (*env, error) {
	store := session.NewStore(cfg.Session.Path)
	sess, err := store.Load()
	if err != nil {
		return nil, err
	}

	client, err := api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.GetAPITimeout(),
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		UserAgent: "fixi/" + version,
	}, sess)
	if err != nil {
		return nil, err
	}

	e := &env{store: store, session: sess, client: client}
	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			// The journal is a local convenience; commands still run.
			logging.Get(logging.CategoryJournal).Warnw("journal unavailable", "path", cfg.Journal.Path, "error", err)
		} else {
			e.journal = j
		}
	}
	return e, nil
}

func (e *env) Close() {
	if e.journal != nil {
		_ = e.journal.Close()
	}
}

// requireLogin fails fast instead of letting the API answer 401.
func (e *env) requireLogin() error {
	if !e.session.Authenticated() {
		return session.ErrNoSession
	}
	return nil
}

// track runs fn and records it in the journal when one is open.
func (e *env) track(ctx context.Context, action, resource, id, note string, fn func() error) error {
	if e.journal == nil {
		return fn()
	}
	return e.journal.Track(ctx, journal.Entry{
		Action:     action,
		Resource:   resource,
		ResourceID: id,
		Note:       note,
		Operator:   e.session.User().Email,
	}, fn)
}

func (e *env) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, requestTimeout())
}

func (e *env) String() string {
	who := e.session.User().Email
	if who == "" {
		who = "anonymous"
	}
	return fmt.Sprintf("%s@%s", who, e.client.BaseURL())
}
