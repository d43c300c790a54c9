package domain

import "time"

// Account is a blockchain identity known to the IDE. Accounts created here
// are simulated placeholders, not real keypairs: Simulated is always true
// for locally generated accounts and their ids carry a SIM- prefix so they
// can never be mistaken for funded keys.
type Account struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Simulated bool      `json:"simulated"`
	Balance   string    `json:"balance,omitempty"`
	Created   time.Time `json:"created"`
}

// SessionState holds the account and network selection the UI persists
// between visits. Owned by a srv.Storage implementation, never by ambient
// global state.
type SessionState struct {
	Accounts        []Account `json:"accounts"`
	SelectedAccount string    `json:"selectedAccount,omitempty"`
	SelectedNetwork string    `json:"selectedNetwork,omitempty"`
	Updated         time.Time `json:"updated"`
}
