// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/fundme/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/fundme/foundation/blockchain/state"
	"github.com/ardanlabs/fundme/foundation/events"
	"github.com/ardanlabs/fundme/foundation/nameservice"
	"github.com/ardanlabs/fundme/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/accounts/list", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/accounts/list/:account", pbl.Accounts)
	app.Handle(http.MethodGet, version, "/fundme/owner", pbl.Owner)
	app.Handle(http.MethodGet, version, "/fundme/pricefeed", pbl.PriceFeed)
	app.Handle(http.MethodGet, version, "/fundme/balance", pbl.ContractBalance)
	app.Handle(http.MethodGet, version, "/fundme/funders", pbl.Funders)
	app.Handle(http.MethodGet, version, "/fundme/funders/:index", pbl.Funder)
	app.Handle(http.MethodGet, version, "/fundme/contributions/:account", pbl.Contribution)
	app.Handle(http.MethodGet, version, "/tx/receipts/list", pbl.Receipts)
	app.Handle(http.MethodGet, version, "/tx/receipts/list/:account", pbl.Receipts)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
}
