package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/delaneyj/knowweb/site"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func serve(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	app, cfg, err := loadApp(cmd)
	if err != nil {
		return err
	}
	addr := cfg.Addr
	if a := cmd.String(addrKey); a != "" {
		addr = a
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler(app, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.Int("routes", len(cfg.Routes)))
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdown)
	}
}

// handler renders every GET through the site's router.
func handler(app *site.App, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		res := app.Render(r.URL.RequestURI())
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(res.Status)
		if r.Method == http.MethodGet {
			app.WritePage(w, res)
		}

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", res.Status),
			zap.String("route", res.Route),
			zap.Duration("took", time.Since(start)),
		)
	})
}
