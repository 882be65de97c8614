// Package handlers contains the full set of handler functions and routes
// supported by the web api.
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ardanlabs/fundme/business/web/errs"
	"github.com/ardanlabs/fundme/business/web/mid"
	"github.com/ardanlabs/fundme/foundation/web"
	"go.uber.org/zap"
)

// UIMux constructs an http.Handler with all application routes defined.
func UIMux(build string, nodeHost string, shutdown chan os.Signal, log *zap.SugaredLogger) (*web.App, error) {
	app := web.NewApp(
		shutdown,
		mid.Logger(log),
		mid.Errors(log),
		mid.Panics(),
	)

	ig, err := newIndex(build, nodeHost)
	if err != nil {
		return nil, fmt.Errorf("loading index template: %w", err)
	}
	app.Handle(http.MethodGet, "", "/", ig.handler)

	rp := receipts{
		url:    fmt.Sprintf("http://%s/v1/tx/receipts/list", nodeHost),
		client: &http.Client{Timeout: 5 * time.Second},
	}
	app.Handle(http.MethodGet, "", "/receipts", rp.handler)

	fs := http.FileServer(http.Dir("app/services/viewer/assets"))
	fs = http.StripPrefix("/assets/", fs)
	f := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		fs.ServeHTTP(w, r)
		return nil
	}
	app.Handle(http.MethodGet, "", "/assets/*", f)

	return app, nil
}

// receipts relays the node's receipt log so the page loads it from its
// own origin.
type receipts struct {
	url    string
	client *http.Client
}

func (rp receipts) handler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rp.url, nil)
	if err != nil {
		return err
	}

	resp, err := rp.client.Do(req)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("node unavailable: %w", err), http.StatusBadGateway)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return web.Respond(ctx, w, []struct{}{}, http.StatusOK)
	}

	if err := web.SetStatusCode(ctx, resp.StatusCode); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, err = io.Copy(w, resp.Body)

	return err
}
