package model

import "time"

// DefaultRecadoSender signs recados stored without a sender.
const DefaultRecadoSender = "Admin"

// Recado is a private message addressed to one user.
type Recado struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"userId"`
	From    string    `json:"from"`
	Message string    `json:"message"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`
}

// Clone returns a copy of r.
func (r Recado) Clone() Recado { return r }
