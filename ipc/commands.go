package ipc

import "github.com/nstehr/dfauto/model"

// Command type constants; the plugin maps each onto one game client call.
const (
	TypeMove             = "move"
	TypeActivateArtifact = "activate_artifact"
	TypeProspectPlanet   = "prospect_planet"
	TypeFindArtifact     = "find_artifact"
)

type MoveCommand struct {
	From     model.LocationID `json:"from"`
	To       model.LocationID `json:"to"`
	Forces   float64          `json:"forces"`
	Silver   float64          `json:"silver"`
	Artifact model.ArtifactID `json:"artifact,omitempty"`
}

type ActivateArtifactCommand struct {
	LocationID model.LocationID `json:"locationId"`
	ArtifactID model.ArtifactID `json:"artifactId"`
	WormholeTo model.LocationID `json:"wormholeTo,omitempty"`
}

type ProspectPlanetCommand struct {
	LocationID model.LocationID `json:"locationId"`
}

type FindArtifactCommand struct {
	LocationID model.LocationID `json:"locationId"`
}
