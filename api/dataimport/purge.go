package dataimport

import (
	"context"
	"time"

	"AqsatiSaaS/api/constants"
)

// PurgeOutcome is the message surfaced after a bulk purge.
type PurgeOutcome struct {
	Message string `json:"message"`
}

// PurgeImportedData deletes all rows of a target table, or only rows created
// within the last olderThanHours. A blunt administrative undo for a bad
// import; runs are not tracked, so the only scope available is a time window.
func PurgeImportedData(ctx context.Context, store Store, table string, olderThanHours int) (*PurgeOutcome, error) {
	if _, err := GetConfig(table); err != nil {
		return nil, err
	}
	var olderThan *time.Time
	if olderThanHours > 0 {
		cutoff := time.Now().Add(-time.Duration(olderThanHours) * time.Hour)
		olderThan = &cutoff
	}
	if err := store.Purge(ctx, table, olderThan); err != nil {
		return nil, err
	}
	return &PurgeOutcome{Message: constants.MsgPurged(table, olderThanHours)}, nil
}
