package api

import (
	"net/http"

	"AqsatiSaaS/api/constants"

	"github.com/gorilla/mux"
)

// NewRouter builds the gateway route table. Auth endpoints are served
// directly; everything else is proxied by path prefix to the owning service.
func NewRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/auth/login", LoginHandler).Methods("POST")
	router.HandleFunc("/auth/logout", LogoutHandler).Methods("POST")
	router.HandleFunc("/get-sessions", GetSessionsHandler).Methods("GET")

	router.PathPrefix("/sales/").Handler(createReverseProxy("http://localhost" + constants.SalesPort))
	router.PathPrefix("/import/").Handler(createReverseProxy("http://localhost" + constants.DataImportPort))
	router.PathPrefix("/dash/").Handler(createReverseProxy("http://localhost" + constants.DashPort))
	router.PathPrefix("/uam/").Handler(createReverseProxy("http://localhost" + constants.UAMPort))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("API Gateway is healthy"))
	}).Methods("GET")

	router.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	return router
}
