package dto

// ChallengeTypeInfo describes a registered challenge type to the front end.
type ChallengeTypeInfo struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Templates map[string]string `json:"templates"`
	Scripts   map[string]string `json:"scripts"`
}

// ChallengeView is the payload a challenge type's read returns.
type ChallengeView struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	Value       int               `json:"value"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Hidden      bool              `json:"hidden"`
	MaxAttempts int               `json:"max_attempts"`
	Owner       string            `json:"owner,omitempty"`
	Own         bool              `json:"own"`
	Type        string            `json:"type"`
	TypeData    ChallengeTypeInfo `json:"type_data"`
	Nonce       string            `json:"nonce,omitempty"`
}

// HintView leaves Hint nil while the hint is locked so the body never leaves
// the server.
type HintView struct {
	ID   uint    `json:"id"`
	Cost int     `json:"cost"`
	Hint *string `json:"hint,omitempty"`
}

// ChallengeListItem is one entry of GET /chals.
type ChallengeListItem struct {
	ID          uint       `json:"id"`
	Type        string     `json:"type"`
	Name        string     `json:"name"`
	Value       int        `json:"value"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Files       []string   `json:"files"`
	Tags        []string   `json:"tags"`
	Hints       []HintView `json:"hints"`
	Owner       string     `json:"owner"`
	Own         bool       `json:"own"`
	Template    string     `json:"template"`
	Script      string     `json:"script"`
	Nonce       string     `json:"nonce,omitempty"`
}

type ChallengeListResponse struct {
	Game []ChallengeListItem `json:"game"`
}

// AttemptResponse is the result of a flag submission. Status is 1 for a
// correct answer, 0 for a wrong one and 2 when the team already solved it.
type AttemptResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
