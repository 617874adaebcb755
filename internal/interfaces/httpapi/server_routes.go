package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerFixtureRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/fixtures/live", handler.ListLiveFixtures)
	mux.HandleFunc("GET /v1/fixtures/upcoming", handler.ListUpcomingFixtures)
	mux.HandleFunc("GET /v1/fixtures/completed", handler.ListCompletedFixtures)
	mux.HandleFunc("GET /v1/fixtures/{fixtureID}", handler.GetFixture)
	mux.HandleFunc("GET /v1/sports/{sport}/fixtures", handler.ListFixturesBySport)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.TriggerSync)))
}
