package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPoolRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /p", handler.ListPools)
	mux.HandleFunc("POST /p", handler.CreatePool)
	mux.HandleFunc("GET /p/{poolID}", handler.GetPoolView)
	mux.HandleFunc("POST /p/{poolID}", handler.SubmitPrediction)
	mux.HandleFunc("POST /p/{poolID}/join", handler.JoinPool)
	mux.HandleFunc("DELETE /p/{poolID}", handler.DeletePool)
}

func registerCompetitionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /competitions/{competitionID}", handler.GetCompetition)
	mux.HandleFunc("GET /competitions/{competitionID}/teams", handler.ListCompetitionTeams)
	mux.HandleFunc("GET /competitions/{competitionID}/matches", handler.ListCompetitionMatches)
}
