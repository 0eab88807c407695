package models

import (
	"time"
)

type ContextKey string

// Log is the persisted application log record written by the async zap sink
type Log struct {
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	AppId        string    `bson:"app_id" json:"app_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}

// OperatorType identifies the regulatory category of a space operator.
// Document templates and authorization requirements are keyed by it.
type OperatorType string

const (
	OperatorSatellite OperatorType = "satellite_operator"
	OperatorLaunch    OperatorType = "launch_provider"
	OperatorSpaceport OperatorType = "spaceport_operator"
)

func (t OperatorType) Valid() bool {
	switch t {
	case OperatorSatellite, OperatorLaunch, OperatorSpaceport:
		return true
	}
	return false
}
