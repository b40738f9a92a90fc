package dataimport

import (
	"log"
	"net/http"

	"AqsatiSaaS/api/constants"
	"AqsatiSaaS/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DataImportService struct {
	config  map[string]interface{}
	pgxPool *pgxpool.Pool
}

func NewDataImportService(cfg map[string]interface{}, pgxPool *pgxpool.Pool) serviceiface.Service {
	return &DataImportService{config: cfg, pgxPool: pgxPool}
}

func (s *DataImportService) Name() string {
	return "dataimport"
}

func (s *DataImportService) Start() error {
	go StartDataImportService(s.pgxPool)
	return nil
}

func (s *DataImportService) Stop() error {
	return nil
}

func StartDataImportService(pgxPool *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.HandleFunc("/import/preview", PreviewWorkbookHandler())
	mux.HandleFunc("/import/run", ImportDataHandler(pgxPool))
	mux.HandleFunc("/import/purge", PurgeImportedDataHandler(pgxPool))
	mux.HandleFunc("/import/fields", TableFieldsHandler(pgxPool))

	log.Println("Data Import Service started on", constants.DataImportPort)
	if err := http.ListenAndServe(constants.DataImportPort, mux); err != nil {
		log.Fatalf("Data Import Service failed: %v", err)
	}
}
