package token

// Grant is the set of room permissions encoded into a token.
type Grant struct {
	RoomJoin       bool   `json:"room_join"`
	Room           string `json:"room"`
	CanPublish     bool   `json:"can_publish"`
	CanSubscribe   bool   `json:"can_subscribe"`
	CanPublishData bool   `json:"can_publish_data"`
}

// Claims is everything a Signer writes into a token besides the issuer key and validity window.
type Claims struct {
	Identity string `json:"identity"`
	Name     string `json:"name"`
	Grant    Grant  `json:"grant"`
}

// Signer abstracts the media backend SDK that encodes and signs tokens.
type Signer interface {
	// Sign returns a compact signed token for claims, keyed by apiKey and signed with apiSecret.
	// The validity window is left to the implementation's default.
	Sign(apiKey, apiSecret string, claims Claims) (string, error)
}
