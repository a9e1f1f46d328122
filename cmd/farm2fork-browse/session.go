package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/Robb753/farm-to-fork-sub000/internal/adapters/listing_api_client"
	logger_adapter "github.com/Robb753/farm-to-fork-sub000/internal/adapters/logger"
	"github.com/Robb753/farm-to-fork-sub000/internal/adapters/statefile"
	"github.com/Robb753/farm-to-fork-sub000/internal/contextkeys"
	"github.com/Robb753/farm-to-fork-sub000/internal/core/port"
	"github.com/Robb753/farm-to-fork-sub000/internal/listingsync"

	"github.com/spf13/cobra"
)

// session - хранилище, загрузчик и синхронизация адреса на время одной команды
type session struct {
	out     io.Writer
	logger  port.LoggerPort
	client  *listing_api_client.Client
	store   *listingsync.Store
	fetcher *listingsync.Fetcher
	urls    *listingsync.URLState
	bus     *listingsync.EventBus
	unbind  func()
}

func newSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer:   cmd.ErrOrStderr(),
		Level:    level,
		UseColor: true,
	}).WithFields(port.Fields{"service_name": "farm2fork-browse"})

	path, err := opts.statePath()
	if err != nil {
		return nil, fmt.Errorf("fichier d'état introuvable : %w", err)
	}

	out := cmd.OutOrStdout()
	client := listing_api_client.NewClient(opts.apiURL)
	store := listingsync.NewStore(statefile.NewFilePersister(path), logger)
	urls := listingsync.NewURLState(listingsync.URLWriterFunc(func(values url.Values) error {
		_, err := fmt.Fprintf(out, "Lien partageable : ?%s\n", listingsync.QueryString(values))
		return err
	}), listingsync.RealScheduler(), logger)
	bus := listingsync.NewEventBus()

	s := &session{
		out:     out,
		logger:  logger,
		client:  client,
		store:   store,
		fetcher: listingsync.NewFetcher(client, store),
		urls:    urls,
		bus:     bus,
		unbind:  listingsync.BindUIEvents(bus, store),
	}

	if opts.rawURL != "" {
		values, err := parseShareLink(opts.rawURL)
		if err != nil {
			return nil, fmt.Errorf("lien invalide : %w", err)
		}
		store.HydrateView(urls.Hydrate(values))
		logger.Debug("View hydrated from shared link", port.Fields{"query": values.Encode()})
	}

	return s, nil
}

// requestContext - контекст команды с таймаутом, логгером и trace id
func (s *session) requestContext(cmd *cobra.Command, opts *rootOptions) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = contextkeys.ContextWithLogger(ctx, s.logger)
	ctx, _ = contextkeys.EnsureTraceID(ctx)
	return context.WithTimeout(ctx, opts.timeout)
}

// pushURL выводит ссылку на текущий вид, если он изменился
func (s *session) pushURL() {
	s.urls.Push(s.store.Snapshot().View())
	s.urls.Flush()
}

func (s *session) close() {
	s.fetcher.Cancel()
	s.urls.Close()
	s.unbind()
}

// parseShareLink принимает полный адрес или только строку запроса
func parseShareLink(raw string) (url.Values, error) {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "?"); i >= 0 {
		raw = raw[i+1:]
	}
	return url.ParseQuery(raw)
}
