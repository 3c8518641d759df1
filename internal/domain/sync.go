package domain

// SyncStatus is the coarse change signal served by the sync endpoint. Counts are
// rows created after the requested baseline; Timestamp is in Unix milliseconds.
type SyncStatus struct {
	HasUpdates bool  `json:"hasUpdates"`
	Timestamp  int64 `json:"timestamp,omitempty"`
	Orders     int   `json:"orders"`
	Users      int   `json:"users"`
	Products   int   `json:"products"`
}
