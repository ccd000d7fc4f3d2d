package ipc

// These constants must stay in sync with the message types the client plugin sends.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeGameState = "game_state"
)

// HelloMessage opens a session. Account is the player's address; the
// game_state payload is model.GameState.
type HelloMessage struct {
	Account string `json:"account"`
	Client  string `json:"client,omitempty"`
}

// AckMessage answers hello and every game_state. The counts summarize what
// the engine did with the snapshot.
type AckMessage struct {
	Status    string `json:"status"`
	Submitted int    `json:"submitted,omitempty"`
	Skipped   int    `json:"skipped,omitempty"`
	Failed    int    `json:"failed,omitempty"`
}
