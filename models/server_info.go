package models

// ServerInfo is reported to master-key clients by GET /serverInfo.
type ServerInfo struct {
	ParseServerVersion string         `json:"parseServerVersion"`
	BuildDate          string         `json:"buildDate"`
	BuildCommit        string         `json:"buildCommit"`
	Features           ServerFeatures `json:"features"`
}

// ServerFeatures describes which optional subsystems are configured.
type ServerFeatures struct {
	Push      PushFeatures      `json:"push"`
	LiveQuery LiveQueryFeatures `json:"liveQuery"`
	Email     EmailFeatures     `json:"email"`
}

type PushFeatures struct {
	Android bool `json:"android"`
}

type LiveQueryFeatures struct {
	ClassNames []string `json:"classNames"`
}

type EmailFeatures struct {
	Adapter          string `json:"adapter"`
	VerifyUserEmails bool   `json:"verifyUserEmails"`
}
