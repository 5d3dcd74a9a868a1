// Package bhandarv1 defines the messages of the bhandar.v1.CacheService API.
// Messages travel as JSON; see Codec.
package bhandarv1

type SetRequest struct {
	Key   string `json:"key"`
	Value []byte `json:"value,omitempty"`
	// Ttl is a count followed by a unit, e.g. "60s".
	Ttl string `json:"ttl"`
}

func (x *SetRequest) GetKey() string {
	if x != nil {
		return x.Key
	}
	return ""
}

func (x *SetRequest) GetValue() []byte {
	if x != nil {
		return x.Value
	}
	return nil
}

func (x *SetRequest) GetTtl() string {
	if x != nil {
		return x.Ttl
	}
	return ""
}

type SetResponse struct{}

type GetRequest struct {
	Key string `json:"key"`
}

func (x *GetRequest) GetKey() string {
	if x != nil {
		return x.Key
	}
	return ""
}

type GetResponse struct {
	Value       []byte `json:"value,omitempty"`
	ExpiresAtMs int64  `json:"expires_at_ms,omitempty"`
}

func (x *GetResponse) GetValue() []byte {
	if x != nil {
		return x.Value
	}
	return nil
}

type TTLRequest struct {
	Key string `json:"key"`
}

func (x *TTLRequest) GetKey() string {
	if x != nil {
		return x.Key
	}
	return ""
}

type TTLResponse struct {
	RemainingMs int64 `json:"remaining_ms"`
}

func (x *TTLResponse) GetRemainingMs() int64 {
	if x != nil {
		return x.RemainingMs
	}
	return 0
}

type DeleteRequest struct {
	Key string `json:"key"`
}

func (x *DeleteRequest) GetKey() string {
	if x != nil {
		return x.Key
	}
	return ""
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type ListEntriesRequest struct{}

type EntryInfo struct {
	Key         string `json:"key"`
	Size        uint32 `json:"size"`
	ExpiresAtMs int64  `json:"expires_at_ms"`
}

type ListEntriesResponse struct {
	Entries []*EntryInfo `json:"entries"`
}

func (x *ListEntriesResponse) GetEntries() []*EntryInfo {
	if x != nil {
		return x.Entries
	}
	return nil
}

type WatchRequest struct {
	// Prefix limits the feed to keys starting with it.
	Prefix string `json:"prefix,omitempty"`
}

func (x *WatchRequest) GetPrefix() string {
	if x != nil {
		return x.Prefix
	}
	return ""
}

type WatchResponse struct {
	Key string `json:"key"`
	// Op is one of "set", "delete" or "expire".
	Op string `json:"op"`
}
