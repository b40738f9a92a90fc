package uam

import (
	"database/sql"
	"log"
	"net/http"

	"AqsatiSaaS/api/constants"
	"AqsatiSaaS/internal/serviceiface"
)

type UAMService struct {
	config map[string]interface{}
	db     *sql.DB
}

func NewUAMService(cfg map[string]interface{}, db *sql.DB) serviceiface.Service {
	return &UAMService{config: cfg, db: db}
}

func (s *UAMService) Name() string {
	return "uam"
}

func (s *UAMService) Start() error {
	go StartUAMService(s.db)
	return nil
}

func (s *UAMService) Stop() error {
	return nil
}

func StartUAMService(db *sql.DB) {
	mux := http.NewServeMux()
	mux.HandleFunc("/uam/users/all", GetUsers(db))
	mux.HandleFunc("/uam/users/create", CreateUser(db))
	mux.HandleFunc("/uam/users/update-role", UpdateUserRole(db))

	log.Println("UAM Service started on", constants.UAMPort)
	if err := http.ListenAndServe(constants.UAMPort, mux); err != nil {
		log.Fatalf("UAM Service failed: %v", err)
	}
}
