package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/outcomes", handler.ListOutcomes)
	mux.HandleFunc("GET /v1/rerank/{year}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/rerank/{year}/{team}", handler.GetRerankClass)
	mux.HandleFunc("GET /v1/rerank/{year}/{team}/meta", handler.GetClassMeta)
	mux.HandleFunc("GET /v1/rerank/{year}/{team}/protection", handler.GetProtectionStatus)
	mux.HandleFunc("GET /v1/recruits/{year}/{team}", handler.ListRecruits)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/rerank", OptionalAuth(verifier, http.HandlerFunc(handler.SaveRerankClass)))
	mux.Handle("POST /v1/rerank/{year}/{team}/recalc", RequireAuth(verifier, http.HandlerFunc(handler.RecalcRerankClass)))
	mux.Handle("POST /v1/recruits", RequireAuth(verifier, http.HandlerFunc(handler.AddRecruit)))
	mux.Handle("DELETE /v1/recruits/{recruitID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteRecruit)))
	mux.Handle("PUT /v1/recruits/{year}/{team}/outcomes", RequireAuth(verifier, http.HandlerFunc(handler.UpdateRecruitOutcomes)))
	mux.Handle("POST /v1/recruits/{year}/{team}/import", RequireAdmin(verifier, http.HandlerFunc(handler.ImportRecruitClass)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/import/season", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSeasonImportJob)))
}
