package inits

import (
	"github.com/hashicorp/go-memdb"
)

const DeliveryTable = "delivery"

// DBInit creates the in-memory delivery table used to suppress replays.
func DBInit() (*memdb.MemDB, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			DeliveryTable: {
				Name: DeliveryTable,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:         "id",
						Unique:       true,
						Indexer:      &memdb.StringFieldIndex{Field: "Fingerprint"},
						AllowMissing: false,
					},
					"time": {
						Name:         "time",
						Unique:       false,
						Indexer:      &memdb.StringFieldIndex{Field: "Time"},
						AllowMissing: false,
					},
					"expiry": {
						Name:         "expiry",
						Unique:       false,
						Indexer:      &memdb.StringFieldIndex{Field: "Expiry"},
						AllowMissing: false,
					},
				},
			},
		},
	}

	return memdb.NewMemDB(schema)
}
