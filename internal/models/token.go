package models

// TokenPair issued by the token manager: both values are signed JWT strings
type TokenPair struct {
	Access  string
	Refresh string
}
