package models

import "strings"

// ArtistRelation is one typed edge in the external artist-relationship graph.
type ArtistRelation struct {
	ArtistID   string `json:"artist_id"`
	ArtistName string `json:"artist_name"`
	Type       string `json:"type"` // e.g. "Member Of", "Producer", "Remix"
}

// DefaultRelationWeights maps relation types to their fixed scoring weight.
// Direct membership and aliases count full; looser credits taper off.
var DefaultRelationWeights = map[string]float64{
	"member of band": 1.0,
	"is person":      1.0,
	"collaboration":  0.8,
	"producer":       0.7,
	"composer":       0.7,
	"remix":          0.5,
}

// DefaultRelationWeight is used for relation types with no table entry.
const DefaultRelationWeight = 0.3

// RelationWeight returns the weight for a relation type, matched
// case-insensitively, falling back to DefaultRelationWeight.
func RelationWeight(relationType string) float64 {
	if w, ok := DefaultRelationWeights[strings.ToLower(relationType)]; ok {
		return w
	}
	return DefaultRelationWeight
}
