package model

// Genre is a provider genre mirrored locally.  The ID is the provider's own
// identifier so that genre links survive re-fetches.
//
// Fields:
//  ID   – provider genre id (genres.id).
//  Name – display name.
type Genre struct {
	ID   int64  `json:"id"`   // genres.id
	Name string `json:"name"` // genres.name
}
