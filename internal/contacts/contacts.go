package contacts

import (
	"strings"
)

// Contact is what the address book knows about one sender.
type Contact struct {
	Name         string `json:"name,omitempty"`
	Company      string `json:"company,omitempty"`
	JobTitle     string `json:"job_title,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// Relationship labels derived from contact group membership.
const (
	RelationshipVIP      = "vip"
	RelationshipClient   = "client"
	RelationshipInternal = "internal"
	RelationshipVendor   = "vendor"
	RelationshipPersonal = "personal"
)

// relationshipByGroup maps contact group names (lowercased) to the
// relationship labels the classifier prompt understands.
var relationshipByGroup = map[string]string{
	"clients":   RelationshipClient,
	"customers": RelationshipClient,
	"vip":       RelationshipVIP,
	"team":      RelationshipInternal,
	"coworkers": RelationshipInternal,
	"vendors":   RelationshipVendor,
	"suppliers": RelationshipVendor,
	"family":    RelationshipPersonal,
	"friends":   RelationshipPersonal,
}

// deriveRelationship picks the most specific relationship implied by the
// contact's group names. VIP wins over everything else.
func deriveRelationship(groups []string) string {
	relationship := ""
	for _, g := range groups {
		rel, ok := relationshipByGroup[strings.ToLower(g)]
		if !ok {
			continue
		}
		if rel == RelationshipVIP {
			return RelationshipVIP
		}
		if relationship == "" {
			relationship = rel
		}
	}
	return relationship
}
