package store

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

// CurrentSchemaVersion is bumped on breaking changes to the entry format.
const CurrentSchemaVersion = 1

var (
	keySchemaVersion = []byte("schema_version")
	keyFixtureHash   = []byte("fixture_hash")
)

// SchemaInfo records what wrote the persisted entries.
type SchemaInfo struct {
	Version     int    `json:"version"`
	FixtureHash string `json:"fixture_hash"`
}

func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}

		if data := b.Get(keySchemaVersion); data != nil {
			if err := json.Unmarshal(data, &info.Version); err != nil {
				info.Version = 0
			}
		}
		if data := b.Get(keyFixtureHash); data != nil {
			info.FixtureHash = string(data)
		}
		return nil
	})
	return &info, err
}

func (s *BoltStore) SetSchemaInfo(info *SchemaInfo) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)

		versionData, err := json.Marshal(info.Version)
		if err != nil {
			return err
		}
		if err := b.Put(keySchemaVersion, versionData); err != nil {
			return err
		}
		return b.Put(keyFixtureHash, []byte(info.FixtureHash))
	})
}

// MigrationResult describes whether persisted entries can be reused.
type MigrationResult struct {
	NeedsRebuild bool
	OldVersion   int
	NewVersion   int
	Reason       string
}

// CheckMigration compares the stored schema and fixture fingerprint with
// the current ones. Entries written for another fixture must be discarded.
func (s *BoltStore) CheckMigration(fixtureHash string) (*MigrationResult, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &MigrationResult{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case info.Version == 0:
		result.Reason = "initializing schema version"
	case info.Version != CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("schema v%d does not match v%d", info.Version, CurrentSchemaVersion)
	case info.FixtureHash != fixtureHash:
		result.NeedsRebuild = true
		result.Reason = "fixture changed since last ingestion"
	}

	return result, nil
}

// Migrate stamps the current schema version and fixture fingerprint.
func (s *BoltStore) Migrate(fixtureHash string) error {
	return s.SetSchemaInfo(&SchemaInfo{
		Version:     CurrentSchemaVersion,
		FixtureHash: fixtureHash,
	})
}
