package server

import "time"

const (
	bcryptCost        = 12
	dbTimeout         = 5 * time.Second
	loginRateWindow   = 1 * time.Minute
	loginRateMaxHits  = 10
	tokenKeyBytes     = 20
	minPasswordLength = 8
	maxUsernameLength = 150
	maxEmailLength    = 254
)
