// Package preview runs scripted scenarios against a livetree root and
// serves the resulting HTML.
//
// A scenario builds a fresh value to render and a list of steps that
// mutate its reactive state. Play renders the value into an in-memory
// container and reports the HTML after the initial render and after each
// step. Server does the same on a ticker and pushes every snapshot to
// websocket clients:
//
//	srv := preview.NewServer(cfg, preview.ServerOptions{Scenario: "list"})
//	go srv.Run(ctx)
//	http.ListenAndServe(cfg.ServeAddress(), srv.Handler())
//
// All host work happens on the goroutine that calls Play or Run. Reactive
// state is goroutine-scoped, so hosts must never be touched from HTTP
// handlers directly.
package preview
