package model

// LocationID identifies a planet. ArtifactID identifies an artifact.
type (
	LocationID string
	ArtifactID string
)

// EmptyAddress is the owner of every planet nobody has captured.
const EmptyAddress = "0x0000000000000000000000000000000000000000"

// GameState is one snapshot pushed by the host plugin. It is never mutated
// after decoding; the host sends a fresh one on every cadence.
type GameState struct {
	Account           string                `json:"account"`
	BlockNumber       int64                 `json:"blockNumber"`
	Timestamp         int64                 `json:"timestamp"` // unix seconds, 0 = use local clock
	Planets           []Planet              `json:"planets"`
	Artifacts         []Artifact            `json:"artifacts"`
	UnconfirmedMoves  []UnconfirmedMove     `json:"unconfirmedMoves"`
	Voyages           []Voyage              `json:"voyages"`
	MineablePlanetIDs []LocationID          `json:"mineablePlanetIds,omitempty"`
	PlanetNames       map[LocationID]string `json:"planetNames,omitempty"`
}

type Planet struct {
	LocationID                  LocationID   `json:"locationId"`
	Owner                       string       `json:"owner"`
	Claimer                     string       `json:"claimer,omitempty"`
	Level                       PlanetLevel  `json:"planetLevel"`
	Type                        PlanetType   `json:"planetType"`
	SpaceType                   SpaceType    `json:"spaceType"`
	Energy                      float64      `json:"energy"`
	EnergyCap                   float64      `json:"energyCap"`
	Silver                      float64      `json:"silver"`
	SilverCap                   float64      `json:"silverCap"`
	Defense                     float64      `json:"defense"`
	Range                       float64      `json:"range"`
	HeldArtifactIDs             []ArtifactID `json:"heldArtifactIds"`
	UnconfirmedDepartures       []Departure  `json:"unconfirmedDepartures"`
	UpgradeState                [3]int       `json:"upgradeState"`
	Bonus                       [6]bool      `json:"bonus"`
	Destroyed                   bool         `json:"destroyed"`
	Location                    Location     `json:"location"`
	ProspectedBlock             *int64       `json:"prospectedBlockNumber,omitempty"`
	HasTriedFindingArtifact     bool         `json:"hasTriedFindingArtifact"`
	UnconfirmedProspect         bool         `json:"unconfirmedProspectPlanet"`
	UnconfirmedFindArtifact     bool         `json:"unconfirmedFindArtifact"`
	UnconfirmedActivateArtifact bool         `json:"unconfirmedActivateArtifact"`
}

// BonusRange is the index of the range bonus in Planet.Bonus.
const BonusRange = 2

// Departure is a move that left this planet but is not yet confirmed.
type Departure struct {
	To         LocationID `json:"to"`
	Energy     float64    `json:"forces"`
	Silver     float64    `json:"silver"`
	ArtifactID ArtifactID `json:"artifactId,omitempty"`
}

type Artifact struct {
	ID                  ArtifactID     `json:"id"`
	Type                ArtifactType   `json:"artifactType"`
	Rarity              ArtifactRarity `json:"rarity"`
	OnPlanetID          LocationID     `json:"onPlanetId,omitempty"`
	LastActivated       int64          `json:"lastActivated"`
	LastDeactivated     int64          `json:"lastDeactivated"`
	UnconfirmedMove     bool           `json:"unconfirmedMove"`
	UnconfirmedActivate bool           `json:"unconfirmedActivateArtifact"`
}

// InInventory reports whether the artifact sits outside any planet.
func (a Artifact) InInventory() bool { return a.OnPlanetID == "" }

// Voyage is a confirmed move still in flight.
type Voyage struct {
	ID          string     `json:"eventId"`
	From        LocationID `json:"fromPlanet"`
	To          LocationID `json:"toPlanet"`
	ArrivalTime int64      `json:"arrivalTime"`
	Energy      float64    `json:"energyArriving"`
	Silver      float64    `json:"silverMoved"`
	ArtifactID  ArtifactID `json:"artifactId,omitempty"`
}

type UnconfirmedMove struct {
	From       LocationID `json:"from"`
	To         LocationID `json:"to"`
	Energy     float64    `json:"forces"`
	Silver     float64    `json:"silver"`
	ArtifactID ArtifactID `json:"artifact,omitempty"`
}
