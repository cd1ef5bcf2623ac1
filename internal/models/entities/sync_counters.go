package entities

// SyncCounters accumulates the outcome of one reconciliation pass and is
// copied onto the closing ledger update.
type SyncCounters struct {
	Processed int
	Created   int
	Updated   int
	Deleted   int
	Errored   int
}

// Add folds another pass into this one (used when the facility feed carries
// nested rooms reconciled in the same transaction).
func (c *SyncCounters) Add(other SyncCounters) {
	c.Processed += other.Processed
	c.Created += other.Created
	c.Updated += other.Updated
	c.Deleted += other.Deleted
	c.Errored += other.Errored
}
