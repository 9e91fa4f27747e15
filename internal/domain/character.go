package domain

import "time"

// Character is the last-known snapshot of a remote character as served by the
// upstream game-data API.
//
// It is NOT tied to Redis, Postgres or Discord. The cache treats it as an
// opaque document; only renderers and the verification protocol look inside.
type Character struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the upstream-assigned character identifier.
	ID int64 `json:"id" validate:"required,gt=0"`

	// ─────────────────────────────
	// Public profile
	// ─────────────────────────────

	Name       string `json:"name" validate:"required"`
	World      string `json:"world" validate:"required"`
	Datacenter string `json:"datacenter"`
	Title      string `json:"title,omitempty"`

	// Bio is the free-text biography. The verification protocol searches it
	// for the challenge token.
	Bio string `json:"bio"`

	Avatar   string `json:"avatar,omitempty"`
	Portrait string `json:"portrait,omitempty"`

	Race      string `json:"race,omitempty"`
	Clan      string `json:"clan,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Nameday   string `json:"nameday,omitempty"`
	Guardian  string `json:"guardian,omitempty"`
	CityState string `json:"city_state,omitempty"`

	GrandCompany *GrandCompany `json:"grand_company,omitempty"`
	FreeCompany  *FreeCompany  `json:"free_company,omitempty"`

	// ─────────────────────────────
	// Progression
	// ─────────────────────────────

	ActiveClassJob *ClassJob   `json:"active_class_job,omitempty"`
	ClassJobs      []ClassJob  `json:"class_jobs,omitempty"`
	Gear           []GearPiece `json:"gear,omitempty"`
	Attributes     []Attribute `json:"attributes,omitempty"`
	ItemLevel      int         `json:"item_level,omitempty"`
}

// GrandCompany is the character's military allegiance and rank.
type GrandCompany struct {
	Name string `json:"name"`
	Rank string `json:"rank"`
}

// FreeCompany is the player guild the character belongs to.
type FreeCompany struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tag  string `json:"tag,omitempty"`
}

// ClassJobRole groups class jobs for the paged classes view.
type ClassJobRole string

const (
	RoleTank     ClassJobRole = "tank"
	RoleHealer   ClassJobRole = "healer"
	RoleDPS      ClassJobRole = "dps"
	RoleCrafter  ClassJobRole = "crafter"
	RoleGatherer ClassJobRole = "gatherer"
)

// IsCombat reports whether the role belongs to the Disciples of War/Magic.
func (r ClassJobRole) IsCombat() bool {
	return r == RoleTank || r == RoleHealer || r == RoleDPS
}

// ClassJob is a single class or job level entry.
type ClassJob struct {
	Name     string       `json:"name"`
	Role     ClassJobRole `json:"role"`
	Level    int          `json:"level"`
	Unlocked bool         `json:"unlocked"`
}

// GearPiece is an equipped item in a given slot.
type GearPiece struct {
	Slot      string `json:"slot"`
	Name      string `json:"name"`
	ItemLevel int    `json:"item_level"`
	Glamour   string `json:"glamour,omitempty"`
}

// Attribute is a named character statistic.
type Attribute struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// CharacterRecord is the persisted form of a Character.
//
// Snapshot and FetchedAt are always written together so the record can never
// be half-stale.
type CharacterRecord struct {
	ID        int64      `json:"id"`
	Snapshot  *Character `json:"snapshot"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// SearchResult is a candidate returned by the upstream character search.
type SearchResult struct {
	ID     int64  `json:"id" validate:"required,gt=0"`
	Name   string `json:"name" validate:"required"`
	World  string `json:"world"`
	Avatar string `json:"avatar,omitempty"`
}
